// Package summarizer provides summary generation for decode results.
package summarizer

import "time"

// Summary contains all data collected during a decode run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input information
	Input InputInfo

	// Decode settings
	Settings Settings

	// Output stream details
	Stream StreamInfo
}

// InputInfo describes the demultiplexed input.
type InputInfo struct {
	Path      string
	Container string
	Codec     string
	UnitCount int
}

// Settings contains the decode configuration.
type Settings struct {
	CodecOverride string
	MaxFrames     int
	OutputDir     string
	SaveYUV       bool
	SavePNG       bool
	SheetEnabled  bool
}

// StreamInfo describes the decoded frames.
type StreamInfo struct {
	FrameCount   int
	Width        int
	Height       int
	BitDepth     int
	ChromaFormat int
	DurationMs   int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets input information.
func (b *Builder) WithInput(input InputInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithSettings sets decode settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithStream sets output stream information.
func (b *Builder) WithStream(stream StreamInfo) *Builder {
	b.summary.Stream = stream
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
