// Package sheet implements the contact sheet rendering stage.
package sheet

import (
	"context"
	"fmt"

	"github.com/user/decodekit/pkg/adapters/preview"
	"github.com/user/decodekit/pkg/frame"
	"github.com/user/decodekit/pkg/pipeline"
)

// Stage renders decoded frames into a labeled preview grid.
type Stage struct{}

// NewStage creates a new sheet stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute renders the contact sheet. Frames keep their decode order and
// are labeled with their timestamps.
func (s *Stage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	frames := make([]*frame.Frame, 0, len(input.Frames))
	labels := make([]string, 0, len(input.Frames))
	for _, f := range input.Frames {
		frames = append(frames, f.Frame)
		labels = append(labels, fmt.Sprintf("%d ms", f.TimestampMs))
	}

	img, err := preview.ContactSheet(frames, input.Columns, input.ThumbWidth, labels)
	if err != nil {
		return pipeline.SheetResult{}, err
	}
	return pipeline.SheetResult{Sheet: img}, nil
}
