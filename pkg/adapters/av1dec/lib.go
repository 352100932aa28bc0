//go:build darwin || linux

// Package av1dec binds libdav1d through purego and adapts it to the
// ports decoder contract.
package av1dec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	loadOnce sync.Once
	loadErr  error
	handle   uintptr
)

// libdav1d function pointers. Out-parameters are declared as typed
// pointers so the runtime keeps them alive and pinned for the duration
// of the foreign call; a uintptr argument would hide them from the GC.
// The mirrored struct layouts live in decoder.go.
var (
	dav1dVersion         func() uintptr
	dav1dDefaultSettings func(settings *dav1dSettings)
	dav1dOpen            func(ctxOut *uintptr, settings *dav1dSettings) int32
	dav1dClose           func(ctxPtr *uintptr)
	dav1dDataCreate      func(data *dav1dData, sz uintptr) uintptr
	dav1dDataUnref       func(data *dav1dData)
	dav1dSendData        func(ctx uintptr, data *dav1dData) int32
	dav1dGetPicture      func(ctx uintptr, pic *dav1dPicture) int32
	dav1dPictureUnref    func(pic *dav1dPicture)
)

// load resolves libdav1d once per process.
func load() error {
	loadOnce.Do(func() {
		loadErr = loadLib()
	})
	return loadErr
}

func loadLib() error {
	var lastErr error
	for _, path := range libPaths() {
		h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			lastErr = err
			continue
		}
		handle = h
		registerSymbols()
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("load libdav1d: %w", lastErr)
	}
	return errors.New("libdav1d not found")
}

// libPaths returns candidate library locations, most specific first.
func libPaths() []string {
	libName := "libdav1d.so"
	if runtime.GOOS == "darwin" {
		libName = "libdav1d.dylib"
	}

	var paths []string
	if envPath := os.Getenv("DECODEKIT_DAV1D_PATH"); envPath != "" {
		paths = append(paths, envPath)
	}
	if envDir := os.Getenv("DECODEKIT_LIB_DIR"); envDir != "" {
		paths = append(paths, filepath.Join(envDir, libName))
	}
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, libName),
			filepath.Join(exeDir, "..", "lib", libName),
		)
	}
	switch runtime.GOOS {
	case "darwin":
		paths = append(paths,
			libName,
			"libdav1d.7.dylib",
			"/usr/local/lib/"+libName,
			"/opt/homebrew/lib/"+libName,
		)
	default:
		paths = append(paths,
			libName,
			"libdav1d.so.7",
			"libdav1d.so.6",
			"/usr/local/lib/"+libName,
			"/usr/lib/"+libName,
		)
	}
	return paths
}

func registerSymbols() {
	purego.RegisterLibFunc(&dav1dVersion, handle, "dav1d_version")
	purego.RegisterLibFunc(&dav1dDefaultSettings, handle, "dav1d_default_settings")
	purego.RegisterLibFunc(&dav1dOpen, handle, "dav1d_open")
	purego.RegisterLibFunc(&dav1dClose, handle, "dav1d_close")
	purego.RegisterLibFunc(&dav1dDataCreate, handle, "dav1d_data_create")
	purego.RegisterLibFunc(&dav1dDataUnref, handle, "dav1d_data_unref")
	purego.RegisterLibFunc(&dav1dSendData, handle, "dav1d_send_data")
	purego.RegisterLibFunc(&dav1dGetPicture, handle, "dav1d_get_picture")
	purego.RegisterLibFunc(&dav1dPictureUnref, handle, "dav1d_picture_unref")
}

// dav1d reports errors as negated errno values. EAGAIN differs across
// platforms (11 on Linux, 35 on Darwin).
func isAgain(ret int32) bool {
	return ret == -11 || ret == -35
}
