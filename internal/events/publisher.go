// Package events publishes session lifecycle events to NATS. Consumers
// (progress tracking, achievements, analytics) live outside this service;
// publishing is strictly best-effort and never blocks a turn.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectSessionStarted  = "patientsim.session.started"
	SubjectSessionTurn     = "patientsim.session.turn"
	SubjectSessionAnalyzed = "patientsim.session.analyzed"
)

// TurnEvent is emitted after every processed trainee turn.
type TurnEvent struct {
	SessionID    string `json:"session_id"`
	Turn         int    `json:"turn"`
	Emotion      string `json:"emotional_state"`
	Satisfaction int    `json:"satisfaction"`
	Phase        string `json:"phase"`
	Timestamp    string `json:"timestamp"`
}

// SessionEvent is emitted on session start and on analysis.
type SessionEvent struct {
	SessionID    string `json:"session_id"`
	ScenarioID   string `json:"scenario_id,omitempty"`
	OverallScore int    `json:"overall_score,omitempty"`
	Timestamp    string `json:"timestamp"`
}

type Publisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Connect dials NATS with retry-friendly options.
func Connect(url, token string, logger *slog.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Publisher{conn: nc, logger: logger}, nil
}

// Publish marshals and sends; failures are the caller's to ignore.
func (p *Publisher) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

// TryPublish sends and logs a warning on failure. Nil receiver is fine, so
// call sites do not need to care whether NATS is configured.
func (p *Publisher) TryPublish(subject string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(subject, data); err != nil {
		p.logger.Warn("event publish failed", "subject", subject, "error", err)
	}
}

func (p *Publisher) Close() {
	if p != nil {
		p.conn.Close()
	}
}
