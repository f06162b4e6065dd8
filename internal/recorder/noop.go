package recorder

import (
	"context"

	"asset-insight/internal/interfaces"
	"asset-insight/internal/types"
)

// Noop is used when no database path is configured.
type Noop struct{}

var _ interfaces.Recorder = (*Noop)(nil)

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) Record(_ context.Context, _ *types.AnalysisResult) error { return nil }
func (n *Noop) Close() error                                            { return nil }
