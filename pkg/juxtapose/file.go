package juxtapose

import (
	"context"

	"github.com/user/decodekit/pkg/abi"
	"github.com/user/decodekit/pkg/adapters/av1dec"
	"github.com/user/decodekit/pkg/adapters/hevcdec"
	"github.com/user/decodekit/pkg/adapters/logger"
	"github.com/user/decodekit/pkg/adapters/osfilesystem"
	"github.com/user/decodekit/pkg/adapters/vp9dec"
	"github.com/user/decodekit/pkg/stages/decode"
	"github.com/user/decodekit/pkg/stages/demux"
)

// Combine renders two inputs side by side with default adapters.
// For custom dependencies (e.g., a custom logger), use the Stage API
// instead.
func Combine(leftPath, rightPath, outputPath string, opts Options) error {
	log := logger.NewNoop()
	fs := osfilesystem.New()

	exports := abi.New(log)
	exports.Register(abi.KindAV1, av1dec.New())
	exports.Register(abi.KindHEVC, hevcdec.New())
	exports.Register(abi.KindVP9, vp9dec.New())

	stage := New(
		demux.NewStage(fs),
		decode.NewStage(exports, log),
		fs,
		log,
		opts,
	)

	_, err := stage.Execute(context.Background(), Input{
		LeftPath:   leftPath,
		RightPath:  rightPath,
		OutputPath: outputPath,
	})

	return err
}
