package coordinator

import "context"

// Broadcaster fans cache-tag evictions out to the other running instances.
type Broadcaster interface {
	// Publish announces that tags were evicted on this instance.
	Publish(ctx context.Context, tags []string) error
	// Subscribe invokes handler for each of tags evicted by another instance.
	Subscribe(tags []string, handler func(tag string)) error
	Close() error
}

// EvictionNotice is the payload exchanged between instances.
type EvictionNotice struct {
	Origin string   `json:"origin"`
	Tags   []string `json:"tags"`
	At     int64    `json:"at"`
}
