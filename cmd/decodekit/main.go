// Package main provides the CLI entry point for decodekit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/decodekit/pkg/abi"
	"github.com/user/decodekit/pkg/adapters/av1dec"
	"github.com/user/decodekit/pkg/adapters/filesink"
	"github.com/user/decodekit/pkg/adapters/hevcdec"
	"github.com/user/decodekit/pkg/adapters/logger"
	"github.com/user/decodekit/pkg/adapters/nullsink"
	"github.com/user/decodekit/pkg/adapters/osfilesystem"
	"github.com/user/decodekit/pkg/adapters/vp9dec"
	"github.com/user/decodekit/pkg/config"
	"github.com/user/decodekit/pkg/juxtapose"
	"github.com/user/decodekit/pkg/orchestrator"
	"github.com/user/decodekit/pkg/pipeline"
	"github.com/user/decodekit/pkg/ports"
	"github.com/user/decodekit/pkg/stages/decode"
	"github.com/user/decodekit/pkg/stages/demux"
	"github.com/user/decodekit/pkg/stages/sheet"
	"github.com/user/decodekit/pkg/summarizer"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Decode  DecodeCmd  `cmd:"" help:"Decode a video file into raw frames."`
	Probe   ProbeCmd   `cmd:"" help:"Inspect a video file without decoding it."`
	Compare CompareCmd `cmd:"" help:"Render two inputs side by side for comparison."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// DecodeCmd defines the decode subcommand.
type DecodeCmd struct {
	// Required arguments
	Input  string `arg:"" help:"Input file (MP4, IVF or raw HEVC Annex B)."`
	Output string `short:"o" default:"./decoded" help:"Output directory."`

	// Configuration file (flags override its values)
	Config string `short:"c" help:"YAML configuration file path."`

	// Decoding options
	Codec     string `enum:",av1,hevc,vp9" default:"" help:"Force codec instead of detecting it."`
	MaxFrames int    `short:"n" help:"Stop after this many frames (0 = all)."`
	LibDir    string `help:"Directory holding the codec shared libraries."`

	// Output options
	PNG     bool `help:"Also save each frame as PNG."`
	NoYUV   bool `help:"Skip raw planar YUV output."`
	NoSheet bool `help:"Skip the contact sheet."`
	DryRun  bool `help:"Decode without writing any files."`

	// Contact sheet options
	SheetColumns int `default:"4" help:"Contact sheet columns."`
	ThumbWidth   int `default:"160" help:"Contact sheet thumbnail width."`

	// Summary
	Summary string `help:"Write a Markdown summary to this path."`

	// Logging options
	LogLevel string `short:"l" default:"info" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)."`
	Quiet    bool   `short:"Q" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Input string `arg:"" help:"Input file (MP4, IVF or raw HEVC Annex B)."`

	LogLevel string `short:"l" default:"warn" enum:"debug,info,warn,error" help:"Log level."`
}

// CompareCmd defines the compare subcommand.
type CompareCmd struct {
	Left   string `arg:"" help:"Left input file."`
	Right  string `arg:"" help:"Right input file."`
	Output string `short:"o" required:"" help:"Output PNG file path."`

	Gap    int `default:"10" help:"Gap between the two frames in pixels."`
	Frames int `default:"1" help:"Number of frame pairs to render."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("decodekit"),
		kong.Description("Decode AV1, HEVC and VP9 video through one uniform interface."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// newExports registers every codec library on a fresh export table.
func newExports(log ports.Logger) *abi.Exports {
	exports := abi.New(log)
	exports.Register(abi.KindAV1, av1dec.New())
	exports.Register(abi.KindHEVC, hevcdec.New())
	exports.Register(abi.KindVP9, vp9dec.New())
	return exports
}

// Run executes the decode command.
func (cmd *DecodeCmd) Run() error {
	cfg := cmd.buildConfig()

	// Create logger
	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	if cfg.LibDir != "" {
		os.Setenv("DECODEKIT_LIB_DIR", cfg.LibDir)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	// Create adapters
	fs := osfilesystem.New()
	exports := newExports(log)

	// Create output sink
	var sink ports.FrameSink
	if cmd.DryRun {
		sink = nullsink.New()
	} else {
		if err := fs.MkdirAll(cfg.OutputDir); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		sink = filesink.New(cfg.OutputDir, fs)
	}

	// Create orchestrator
	orch := orchestrator.New(
		demux.NewStage(fs),
		decode.NewStage(exports, log),
		sheet.NewStage(),
		sink,
		log,
	)

	log.Info(l10n.F("Decoding %s...", cfg.Input))

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig())
	if err != nil {
		return err
	}

	log.Info(l10n.F("Output saved to %s", cfg.OutputDir))

	if cfg.SummaryPath != "" {
		if err := cmd.writeSummary(cfg, result); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		log.Info(l10n.F("Summary saved to %s", cfg.SummaryPath))
	}

	return nil
}

// buildConfig merges the configuration file with CLI overrides.
func (cmd *DecodeCmd) buildConfig() config.Config {
	cfg := config.Defaults()
	if cmd.Config != "" {
		if loaded, err := config.LoadFromFile(cmd.Config); err == nil {
			cfg = loaded
		}
	}

	cfg.Input = cmd.Input
	if cmd.Output != "" {
		cfg.OutputDir = cmd.Output
	}
	if cmd.Codec != "" {
		cfg.Codec = cmd.Codec
	}
	if cmd.MaxFrames > 0 {
		cfg.MaxFrames = cmd.MaxFrames
	}
	if cmd.LibDir != "" {
		cfg.LibDir = cmd.LibDir
	}
	if cmd.PNG {
		cfg.SavePNG = true
	}
	if cmd.NoYUV {
		cfg.SaveYUV = false
	}
	if cmd.NoSheet {
		cfg.Sheet.Enabled = false
	}
	if cmd.SheetColumns > 0 {
		cfg.Sheet.Columns = cmd.SheetColumns
	}
	if cmd.ThumbWidth > 0 {
		cfg.Sheet.ThumbWidth = cmd.ThumbWidth
	}
	if cmd.Summary != "" {
		cfg.SummaryPath = cmd.Summary
	}
	cfg.LogLevel = cmd.LogLevel

	return cfg
}

func (cmd *DecodeCmd) writeSummary(cfg config.Config, result orchestrator.RunResult) error {
	summary := summarizer.NewBuilder().
		WithInput(summarizer.InputInfo{
			Path:      cfg.Input,
			Container: result.Container,
			Codec:     result.Codec,
			UnitCount: result.UnitCount,
		}).
		WithSettings(summarizer.Settings{
			CodecOverride: cfg.Codec,
			MaxFrames:     cfg.MaxFrames,
			OutputDir:     cfg.OutputDir,
			SaveYUV:       cfg.SaveYUV,
			SavePNG:       cfg.SavePNG,
			SheetEnabled:  cfg.Sheet.Enabled,
		}).
		WithStream(summarizer.StreamInfo{
			FrameCount:   result.FrameCount,
			Width:        result.Width,
			Height:       result.Height,
			BitDepth:     result.BitDepth,
			ChromaFormat: result.ChromaFormat,
			DurationMs:   result.DurationMs,
		}).
		Build()

	writer := summarizer.NewWriter(summarizer.NewMarkdownFormatter())
	return writer.Write(cfg.SummaryPath, summary)
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	log := logger.NewConsole(ports.ParseLogLevel(cmd.LogLevel))
	fs := osfilesystem.New()

	stage := demux.NewStage(fs)
	result, err := stage.Execute(context.Background(), pipeline.DemuxInput{Path: cmd.Input})
	if err != nil {
		return err
	}

	fmt.Println(l10n.F("Codec: %s", result.Codec))
	fmt.Println(l10n.F("Container: %s", result.Container))
	fmt.Println(l10n.F("Access units: %d", len(result.Units)))
	fmt.Println(l10n.F("Configuration blobs: %d", len(result.Config)))

	keyframes := 0
	for _, unit := range result.Units {
		if unit.Keyframe {
			keyframes++
		}
	}
	fmt.Println(l10n.F("Key frames: %d", keyframes))

	log.Debug(l10n.T("Probe completed"))
	return nil
}

// Run executes the compare command.
func (cmd *CompareCmd) Run() error {
	opts := juxtapose.DefaultOptions()
	opts.Gap = cmd.Gap
	opts.MaxFrames = cmd.Frames

	if err := juxtapose.Combine(cmd.Left, cmd.Right, cmd.Output, opts); err != nil {
		return err
	}
	fmt.Println(l10n.F("Comparison saved to %s", cmd.Output))
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("decodekit version %s", version))
	return nil
}
