package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChannelPrefix namespaces pub/sub channels: project:events:{project_id}
const ChannelPrefix = "project:events:"

// RedisBus fans project events out over Redis pub/sub so every API instance
// can serve streams for any project.
type RedisBus struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisBus(client *redis.Client, log *zap.Logger) *RedisBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBus{client: client, log: log}
}

func Channel(projectID string) string {
	return ChannelPrefix + projectID
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, Channel(ev.ProjectID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so no event
// published after it returns can be missed.
func (b *RedisBus) Subscribe(ctx context.Context, projectID string) (Subscription, error) {
	ps := b.client.Subscribe(ctx, Channel(projectID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	s := &redisSubscription{
		ps:   ps,
		out:  make(chan Event, 16),
		done: make(chan struct{}),
		log:  b.log.With(zap.String("project_id", projectID)),
	}
	go s.run(ps.Channel())
	return s, nil
}

type redisSubscription struct {
	ps   *redis.PubSub
	out  chan Event
	done chan struct{}
	once sync.Once
	log  *zap.Logger
}

func (s *redisSubscription) Events() <-chan Event { return s.out }

func (s *redisSubscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.ps.Close()
	})
	return err
}

func (s *redisSubscription) run(msgs <-chan *redis.Message) {
	defer close(s.out)
	for {
		select {
		case <-s.done:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				s.log.Warn("dropping malformed project event", zap.Error(err))
				continue
			}
			select {
			case s.out <- ev:
			case <-s.done:
				return
			}
		}
	}
}
