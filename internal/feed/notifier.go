package feed

import (
	"context"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"
)

// Notifier tells every listener that the underlying log changed. It carries
// no payload: listeners re-read the authoritative state.
type Notifier interface {
	Notify(ctx context.Context) error
	// Listen registers fn until ctx is done.
	Listen(ctx context.Context, fn func())
}

// LocalNotifier delivers notifications in-process, synchronously.
type LocalNotifier struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]func()
}

func NewLocalNotifier() *LocalNotifier {
	return &LocalNotifier{listeners: make(map[int]func())}
}

func (n *LocalNotifier) Notify(_ context.Context) error {
	n.mu.RLock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.RUnlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

func (n *LocalNotifier) Listen(ctx context.Context, fn func()) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners[id] = fn
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}()
}

// RedisNotifier fans notifications out across instances over a pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context) error {
	return n.client.Publish(ctx, n.channel, "changed").Err()
}

func (n *RedisNotifier) Listen(ctx context.Context, fn func()) {
	pubsub := n.client.Subscribe(ctx, n.channel)
	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					log.Printf("⚠️ Redis notifier channel %s closed", n.channel)
					return
				}
				fn()
			}
		}
	}()
}
