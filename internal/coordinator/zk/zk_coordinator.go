package zk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	coordinator "libraryapi/internal/coordinator/iface"
	"libraryapi/internal/logger"

	"github.com/go-zookeeper/zk"
)

// zkCoordinator keeps one znode per cache tag under root. Publishing writes the
// node; every other instance holds a data watch on it.
type zkCoordinator struct {
	conn   *zk.Conn
	root   string
	nodeID string
	logger logger.Logger

	retryMin  time.Duration
	retryMax  time.Duration
	done      chan struct{}
	closeOnce sync.Once
}

// nodeWatcher is the part of *zk.Conn the watch loop needs.
type nodeWatcher interface {
	GetW(path string) ([]byte, *zk.Stat, <-chan zk.Event, error)
}

// NewZKCoordinator creates a new ZooKeeper-backed broadcaster
func NewZKCoordinator(servers []string, sessionTimeout time.Duration, root, nodeID string, log logger.Logger) (coordinator.Broadcaster, error) {
	conn, _, err := zk.Connect(servers, sessionTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to zookeeper: %w", err)
	}

	log.Info("connected to zookeeper",
		logger.Any("servers", servers),
	)

	return &zkCoordinator{
		conn:     conn,
		root:     strings.TrimRight(root, "/"),
		nodeID:   nodeID,
		logger:   log.With(logger.String("component", "zk_coordinator")),
		retryMin: 100 * time.Millisecond,
		retryMax: 10 * time.Second,
		done:     make(chan struct{}),
	}, nil
}

func (c *zkCoordinator) tagPath(tag string) string {
	return path.Join(c.root, tag)
}

func (c *zkCoordinator) Publish(ctx context.Context, tags []string) error {
	data, err := json.Marshal(coordinator.EvictionNotice{
		Origin: c.nodeID,
		Tags:   tags,
		At:     time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode eviction notice: %w", err)
	}

	var errs []error
	for _, tag := range tags {
		if err := c.updateNode(c.tagPath(tag), data); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (c *zkCoordinator) Subscribe(tags []string, handler func(tag string)) error {
	for _, tag := range tags {
		p := c.tagPath(tag)
		if err := c.createNode(p, []byte{}); err != nil {
			return err
		}
		c.watchNode(p, tag, handler)
	}
	return nil
}

func (c *zkCoordinator) createNode(p string, data []byte) error {
	if err := c.ensureParentPath(p); err != nil {
		return err
	}

	_, err := c.conn.Create(p, data, 0, zk.WorldACL(zk.PermAll))
	if err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return fmt.Errorf("failed to create node: %w", err)
	}

	return nil
}

func (c *zkCoordinator) updateNode(p string, data []byte) error {
	// Version -1 overwrites regardless of concurrent writers.
	_, err := c.conn.Set(p, data, -1)
	if errors.Is(err, zk.ErrNoNode) {
		if err := c.createNode(p, data); err != nil {
			return err
		}
		_, err = c.conn.Set(p, data, -1)
	}
	if err != nil {
		return fmt.Errorf("failed to update node %s: %w", p, err)
	}

	return nil
}

func (c *zkCoordinator) watchNode(p, tag string, handler func(string)) {
	c.logger.Info("setting up watch on zk node",
		logger.String("path", p),
	)

	go c.watchLoop(c.conn, p, tag, handler)
}

// watchLoop re-arms the data watch until Close. Each GetW result is compared
// with the last seen node version, so writes landing between an event and the
// re-arm are still delivered. The state found on the first read is not.
func (c *zkCoordinator) watchLoop(w nodeWatcher, p, tag string, handler func(string)) {
	var (
		seen   int32
		primed bool
		delay  = c.retryMin
	)

	for {
		data, stat, events, err := w.GetW(p)
		if err != nil {
			c.logger.Warn("failed to watch node, retrying",
				logger.String("path", p),
				logger.Duration("backoff", delay),
				logger.Error(err),
			)
			if !c.pause(delay) {
				return
			}
			delay = min(2*delay, c.retryMax)
			continue
		}
		delay = c.retryMin

		if primed && stat.Version != seen {
			c.deliver(p, data, tag, handler)
		}
		seen, primed = stat.Version, true

		select {
		case <-c.done:
			return
		case event, ok := <-events:
			if !ok || event.Type == zk.EventNotWatching {
				c.logger.Info("watch lost, re-arming",
					logger.String("path", p),
				)
				if !c.pause(delay) {
					return
				}
			}
		}
	}
}

func (c *zkCoordinator) deliver(p string, data []byte, tag string, handler func(string)) {
	var notice coordinator.EvictionNotice
	if err := json.Unmarshal(data, &notice); err != nil {
		c.logger.Warn("ignoring malformed eviction notice",
			logger.String("path", p),
			logger.Error(err),
		)
		return
	}

	if notice.Origin == c.nodeID {
		return
	}

	handler(tag)
}

// pause waits for d and reports false once the coordinator is closed.
func (c *zkCoordinator) pause(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-c.done:
		return false
	case <-t.C:
		return true
	}
}

func (c *zkCoordinator) Close() error {
	c.closeOnce.Do(func() {
		c.logger.Info("closing zookeeper connection")
		close(c.done)
		c.conn.Close()
	})
	return nil
}

// ensureParentPath creates parent directories if they don't exist
func (c *zkCoordinator) ensureParentPath(p string) error {
	parent := path.Dir(p)
	if parent == "/" || parent == "." {
		return nil
	}

	exists, _, err := c.conn.Exists(parent)
	if err != nil {
		return fmt.Errorf("failed to check parent path: %w", err)
	}
	if exists {
		return nil
	}

	if err := c.ensureParentPath(parent); err != nil {
		return err
	}

	_, err = c.conn.Create(parent, []byte{}, 0, zk.WorldACL(zk.PermAll))
	if err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return fmt.Errorf("failed to create parent path: %w", err)
	}

	return nil
}
