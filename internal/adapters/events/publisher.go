package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/cooperadora-escolar/coop/internal/domain/config"
	"github.com/cooperadora-escolar/coop/internal/governance"
)

// DefaultSubjectPrefix namespaces governance events on the broker
const DefaultSubjectPrefix = "coop"

// Publisher is an event publisher that holds a broker connection
type Publisher interface {
	governance.EventPublisher
	Close() error
}

// message is the wire form of a domain event. Amounts travel as decimal
// strings so consumers without big-integer JSON support keep full precision.
type message struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	At         time.Time `json:"at"`
	ProposalID uint64    `json:"proposalId,omitempty"`
	Address    string    `json:"address,omitempty"`
	Choice     string    `json:"choice,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	Status     string    `json:"status,omitempty"`
}

// Encode renders an event as JSON
func Encode(e domain.Event) ([]byte, error) {
	m := message{
		ID:         e.ID,
		Type:       string(e.Type),
		At:         e.At,
		ProposalID: e.ProposalID,
		Choice:     string(e.Choice),
		Status:     string(e.Status),
	}
	if e.Address != nil {
		m.Address = e.Address.Hex()
	}
	if e.Amount != nil {
		m.Amount = e.Amount.String()
	}
	return json.Marshal(m)
}

// NewPublisher connects the publisher selected by cfg.Events
func NewPublisher(ctx context.Context, cfg *config.RuntimeConfig, log *slog.Logger) (Publisher, error) {
	prefix := cfg.Events.SubjectPrefix
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	switch cfg.Events.Backend {
	case config.EventsBackendNone, "":
		return NewLogPublisher(log), nil
	case config.EventsBackendNATS:
		return DialNATS(cfg.Events.URL, prefix, log)
	case config.EventsBackendRedis:
		return DialRedis(ctx, cfg.Events.URL, prefix, log)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Events.Backend)
	}
}

// LogPublisher writes events to the debug log only
type LogPublisher struct {
	log *slog.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, e domain.Event) error {
	p.log.Debug("governance event", "id", e.ID, "type", e.Type, "proposal", e.ProposalID)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
