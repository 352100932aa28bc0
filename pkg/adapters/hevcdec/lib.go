//go:build darwin || linux

// Package hevcdec binds libde265 through purego and adapts it to the
// ports decoder contract.
package hevcdec

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

// libde265 function pointers. The API is purely scalar/pointer based, so
// no struct mirroring is needed. Out-parameters are declared as typed
// pointers so the runtime keeps them alive and pinned for the duration
// of the foreign call; a uintptr argument would hide them from the GC.
var (
	de265NewDecoder         func() uintptr
	de265FreeDecoder        func(ctx uintptr) int32
	de265StartWorkerThreads func(ctx uintptr, threads int32) int32
	de265PushNAL            func(ctx uintptr, data *byte, length int32, pts uintptr, user uintptr) int32
	de265Decode             func(ctx uintptr, more *int32) int32
	de265FlushData          func(ctx uintptr) int32
	de265GetNextPicture     func(ctx uintptr) uintptr
	de265ReleaseNextPicture func(ctx uintptr)
	de265GetImageWidth      func(img uintptr, channel int32) int32
	de265GetImageHeight     func(img uintptr, channel int32) int32
	de265GetBitsPerPixel    func(img uintptr, channel int32) int32
	de265GetChromaFormat    func(img uintptr) int32
	de265GetImagePlane      func(img uintptr, channel int32, stride *int32) uintptr
)

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
		return fmt.Errorf("load libde265: %w", lastErr)
	}
	return errors.New("libde265 not found")
}

func libPaths() []string {
	libName := "libde265.so"
	if runtime.GOOS == "darwin" {
		libName = "libde265.dylib"
	}

	var paths []string
	if envPath := os.Getenv("DECODEKIT_DE265_PATH"); envPath != "" {
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
			"libde265.0.dylib",
			"/usr/local/lib/"+libName,
			"/opt/homebrew/lib/"+libName,
		)
	default:
		paths = append(paths,
			libName,
			"libde265.so.0",
			"/usr/local/lib/"+libName,
			"/usr/lib/"+libName,
		)
	}
	return paths
}

func registerSymbols() {
	purego.RegisterLibFunc(&de265NewDecoder, handle, "de265_new_decoder")
	purego.RegisterLibFunc(&de265FreeDecoder, handle, "de265_free_decoder")
	purego.RegisterLibFunc(&de265StartWorkerThreads, handle, "de265_start_worker_threads")
	purego.RegisterLibFunc(&de265PushNAL, handle, "de265_push_NAL")
	purego.RegisterLibFunc(&de265Decode, handle, "de265_decode")
	purego.RegisterLibFunc(&de265FlushData, handle, "de265_flush_data")
	purego.RegisterLibFunc(&de265GetNextPicture, handle, "de265_get_next_picture")
	purego.RegisterLibFunc(&de265ReleaseNextPicture, handle, "de265_release_next_picture")
	purego.RegisterLibFunc(&de265GetImageWidth, handle, "de265_get_image_width")
	purego.RegisterLibFunc(&de265GetImageHeight, handle, "de265_get_image_height")
	purego.RegisterLibFunc(&de265GetBitsPerPixel, handle, "de265_get_bits_per_pixel")
	purego.RegisterLibFunc(&de265GetChromaFormat, handle, "de265_get_chroma_format")
	purego.RegisterLibFunc(&de265GetImagePlane, handle, "de265_get_image_plane")
}
