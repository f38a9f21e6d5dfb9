package config

import (
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NewNATSConnection returns nil without error when no NATS_URL is configured.
func NewNATSConnection(cfg *Config, logger *slog.Logger) (*nats.Conn, error) {
	if cfg.NATSURL == "" {
		return nil, nil
	}
	return nats.Connect(
		cfg.NATSURL,
		nats.Name("online-voting"),
		nats.Timeout(5*time.Second),
		nats.DrainTimeout(10*time.Second),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				logger.With("error", err, "subject", s.Subject).Error("async NATS error")
				return
			}
			logger.With("error", err).Error("async NATS error outside subscription")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.With("error", err).Warn("NATS disconnected")
			}
		}),
	)
}
