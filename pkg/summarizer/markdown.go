package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format converts the summary to Markdown.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Decode Summary\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	sb.WriteString("## Input\n\n")
	sb.WriteString(fmt.Sprintf("- Path: %s\n", summary.Input.Path))
	sb.WriteString(fmt.Sprintf("- Container: %s\n", summary.Input.Container))
	sb.WriteString(fmt.Sprintf("- Codec: %s\n", summary.Input.Codec))
	sb.WriteString(fmt.Sprintf("- Access units: %d\n\n", summary.Input.UnitCount))

	sb.WriteString("## Settings\n\n")
	if summary.Settings.CodecOverride != "" {
		sb.WriteString(fmt.Sprintf("- Codec override: %s\n", summary.Settings.CodecOverride))
	}
	if summary.Settings.MaxFrames > 0 {
		sb.WriteString(fmt.Sprintf("- Max frames: %d\n", summary.Settings.MaxFrames))
	}
	sb.WriteString(fmt.Sprintf("- Output directory: %s\n", summary.Settings.OutputDir))
	sb.WriteString(fmt.Sprintf("- Save YUV: %t\n", summary.Settings.SaveYUV))
	sb.WriteString(fmt.Sprintf("- Save PNG: %t\n", summary.Settings.SavePNG))
	sb.WriteString(fmt.Sprintf("- Contact sheet: %t\n\n", summary.Settings.SheetEnabled))

	sb.WriteString("## Stream\n\n")
	sb.WriteString(fmt.Sprintf("- Frames: %d\n", summary.Stream.FrameCount))
	sb.WriteString(fmt.Sprintf("- Resolution: %dx%d\n", summary.Stream.Width, summary.Stream.Height))
	sb.WriteString(fmt.Sprintf("- Bit depth: %d\n", summary.Stream.BitDepth))
	sb.WriteString(fmt.Sprintf("- Chroma format: %s\n", chromaName(summary.Stream.ChromaFormat)))
	sb.WriteString(fmt.Sprintf("- Duration: %d ms\n", summary.Stream.DurationMs))

	return sb.String()
}

func chromaName(format int) string {
	switch format {
	case 420:
		return "4:2:0"
	case 422:
		return "4:2:2"
	case 444:
		return "4:4:4"
	default:
		return fmt.Sprintf("unknown (%d)", format)
	}
}
