//go:build darwin || linux

// Package vp9dec binds the libvpx VP9 decoder through purego and adapts
// it to the ports decoder contract.
package vp9dec

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

// libvpx function pointers. vpx_codec_dec_init is a header macro; the
// real entry point is vpx_codec_dec_init_ver. Out-parameters are
// declared as typed pointers so the runtime keeps them alive and pinned
// for the duration of the foreign call; a uintptr argument would hide
// them from the GC.
var (
	vpxCodecVP9Dx      func() uintptr
	vpxCodecDecInitVer func(ctx *vpxCodecCtx, iface uintptr, cfg *vpxCodecDecCfg, flags int64, ver int32) int32
	vpxCodecDecode     func(ctx *vpxCodecCtx, data *byte, size uint32, user uintptr, deadline int64) int32
	vpxCodecGetFrame   func(ctx *vpxCodecCtx, iter *uintptr) uintptr
	vpxCodecDestroy    func(ctx *vpxCodecCtx) int32
	vpxCodecErrToStr   func(err int32) uintptr
)

// VPX_DECODER_ABI_VERSION for libvpx 1.8+.
const decoderABIVersion = 12

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
		return fmt.Errorf("load libvpx: %w", lastErr)
	}
	return errors.New("libvpx not found")
}

func libPaths() []string {
	libName := "libvpx.so"
	if runtime.GOOS == "darwin" {
		libName = "libvpx.dylib"
	}

	var paths []string
	if envPath := os.Getenv("DECODEKIT_VPX_PATH"); envPath != "" {
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
			"libvpx.9.dylib",
			"/usr/local/lib/"+libName,
			"/opt/homebrew/lib/"+libName,
		)
	default:
		paths = append(paths,
			libName,
			"libvpx.so.9",
			"libvpx.so.7",
			"/usr/local/lib/"+libName,
			"/usr/lib/"+libName,
		)
	}
	return paths
}

func registerSymbols() {
	purego.RegisterLibFunc(&vpxCodecVP9Dx, handle, "vpx_codec_vp9_dx")
	purego.RegisterLibFunc(&vpxCodecDecInitVer, handle, "vpx_codec_dec_init_ver")
	purego.RegisterLibFunc(&vpxCodecDecode, handle, "vpx_codec_decode")
	purego.RegisterLibFunc(&vpxCodecGetFrame, handle, "vpx_codec_get_frame")
	purego.RegisterLibFunc(&vpxCodecDestroy, handle, "vpx_codec_destroy")
	purego.RegisterLibFunc(&vpxCodecErrToStr, handle, "vpx_codec_err_to_string")
}
