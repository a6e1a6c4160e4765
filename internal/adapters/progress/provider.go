package progress

import (
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/usecase"
)

// NewSink picks the spinner for interactive table output and the no-op sink
// otherwise, so JSON and YAML output stay machine readable.
func NewSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.NonInteractive || (cfg.Output != "" && cfg.Output != config.OutputTable) {
		return discardSink{}
	}
	return NewSpinnerSink()
}
