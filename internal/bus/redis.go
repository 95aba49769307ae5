package bus

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisForwarder mirrors the change feed over a Redis pub/sub channel so
// several console processes observe each other's writes.
type RedisForwarder struct {
	client  *redis.Client
	channel string
	queue   chan Event
}

func NewRedisClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func NewRedisForwarder(client *redis.Client, channel string) *RedisForwarder {
	f := &RedisForwarder{
		client:  client,
		channel: channel,
		queue:   make(chan Event, 100),
	}

	go f.worker()
	return f
}

func (f *RedisForwarder) worker() {
	for ev := range f.queue {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("[bus] encode %q failed: %v", ev.Key, err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
			log.Printf("[bus] redis publish %q failed: %v", ev.Key, err)
		}
		cancel()
	}
}

// Forward never blocks the writer; a full queue drops the event.
func (f *RedisForwarder) Forward(ev Event) {
	select {
	case f.queue <- ev:
	default:
		log.Printf("[bus] redis queue full, dropping %q", ev.Key)
	}
}

// Listen delivers events published by other processes until ctx is done.
func (f *RedisForwarder) Listen(ctx context.Context, b *Bus) {
	sub := f.client.Subscribe(ctx, f.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			ev, err := decodeEvent(msg.Payload)
			if err != nil {
				log.Printf("[bus] ignoring malformed message: %v", err)
				continue
			}
			b.Deliver(ev)
		}
	}
}

func (f *RedisForwarder) Close() {
	close(f.queue)
}

func decodeEvent(payload string) (Event, error) {
	var ev Event
	err := json.Unmarshal([]byte(payload), &ev)
	return ev, err
}
