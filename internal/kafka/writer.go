package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	k "github.com/segmentio/kafka-go"
)

type Writer struct {
	w *k.Writer
}

func NewWriter(brokers []string, topic string) *Writer {
	return &Writer{w: &k.Writer{
		Addr:                   k.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &k.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           k.RequireOne,
		Async:                  true,
		AllowAutoTopicCreation: true,
	}}
}

func (w *Writer) Close() error { return w.w.Close() }

func (w *Writer) Publish(ctx context.Context, key string, value []byte) error {
	return w.w.WriteMessages(ctx, k.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

// WriteJSON publishes v keyed by key; the Hash balancer keeps every event
// for one entity on the same partition.
func (w *Writer) WriteJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return w.Publish(ctx, key, b)
}
