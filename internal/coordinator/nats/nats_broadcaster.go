package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	coordinator "libraryapi/internal/coordinator/iface"
	"libraryapi/internal/logger"

	"github.com/nats-io/nats.go"
)

type natsBroadcaster struct {
	conn    *nats.Conn
	subject string
	nodeID  string
	subs    []*nats.Subscription
	logger  logger.Logger
}

// NewNATSBroadcaster connects to url and exchanges eviction notices on subject.
func NewNATSBroadcaster(url, subject, nodeID string, log logger.Logger) (coordinator.Broadcaster, error) {
	conn, err := nats.Connect(url,
		nats.Name("library-api-"+nodeID),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	log.Info("connected to nats", logger.String("url", url))

	return &natsBroadcaster{
		conn:    conn,
		subject: subject,
		nodeID:  nodeID,
		logger:  log.With(logger.String("component", "nats_broadcaster")),
	}, nil
}

func (b *natsBroadcaster) Publish(ctx context.Context, tags []string) error {
	data, err := json.Marshal(coordinator.EvictionNotice{
		Origin: b.nodeID,
		Tags:   tags,
		At:     time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode eviction notice: %w", err)
	}

	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("failed to publish eviction notice: %w", err)
	}

	return nil
}

func (b *natsBroadcaster) Subscribe(tags []string, handler func(tag string)) error {
	wanted := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		wanted[t] = struct{}{}
	}

	sub, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		var notice coordinator.EvictionNotice
		if err := json.Unmarshal(msg.Data, &notice); err != nil {
			b.logger.Warn("ignoring malformed eviction notice", logger.Error(err))
			return
		}
		if notice.Origin == b.nodeID {
			return
		}
		for _, tag := range notice.Tags {
			if _, ok := wanted[tag]; ok {
				handler(tag)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}

	b.subs = append(b.subs, sub)
	return nil
}

func (b *natsBroadcaster) Close() error {
	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	return b.conn.Drain()
}
