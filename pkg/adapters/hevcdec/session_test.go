//go:build darwin || linux

package hevcdec

// The binding variables must take typed pointers. Passing out-parameters
// as uintptr hides them from the garbage collector, so the library would
// write into memory the runtime is free to reclaim mid-call.
var (
	_ func(uintptr, *byte, int32, uintptr, uintptr) int32 = de265PushNAL
	_ func(uintptr, *int32) int32                         = de265Decode
	_ func(uintptr, int32, *int32) uintptr                = de265GetImagePlane
)
