package progress

import (
	"context"

	"github.com/cooperadora-escolar/coop/internal/usecase"
)

// discardSink drops everything
type discardSink struct{}

func (discardSink) OnProgress(context.Context, usecase.ProgressEvent) {}
func (discardSink) Info(string)                                       {}
func (discardSink) Error(string)                                      {}

var _ usecase.ProgressSink = discardSink{}
