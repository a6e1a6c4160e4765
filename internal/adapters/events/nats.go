package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cooperadora-escolar/coop/internal/domain"
	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes events on core NATS subjects "<prefix>.<type>"
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	log    *slog.Logger
}

// DialNATS connects to the NATS server at url
func DialNATS(url, prefix string, log *slog.Logger) (*NATSPublisher, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url,
		nats.Name("coop"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Debug("connected to nats", "url", conn.ConnectedUrl())
	return &NATSPublisher{conn: conn, prefix: prefix, log: log}, nil
}

// Publish sends the event and flushes it to the server
func (p *NATSPublisher) Publish(ctx context.Context, e domain.Event) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}
	subject := e.Subject(p.prefix)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return p.conn.FlushWithContext(ctx)
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
