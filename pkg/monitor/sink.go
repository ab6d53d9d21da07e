package monitor

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/segmentio/kafka-go"
)

// Sink receives processing results.
type Sink interface {
	Publish(ctx context.Context, result Result) error
	Close() error
}

// WriterSink writes each result as one JSON line.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterSink writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Publish writes result.
func (s *WriterSink) Publish(ctx context.Context, result Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(result)
}

// Close is a no-op; the writer belongs to the caller.
func (s *WriterSink) Close() error {
	return nil
}

// KafkaWriter is the subset of *kafka.Writer used by KafkaSink.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes results as JSON to a topic, keyed by message ID.
type KafkaSink struct {
	writer KafkaWriter
}

// NewKafkaSink creates a writer for topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	})
}

// NewKafkaSinkWithWriter wraps an existing writer.
func NewKafkaSinkWithWriter(writer KafkaWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// Publish sends result.
func (s *KafkaSink) Publish(ctx context.Context, result Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(result.Message.ID),
		Value: data,
	})
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// NopSink discards results.
type NopSink struct{}

func (NopSink) Publish(context.Context, Result) error { return nil }

func (NopSink) Close() error { return nil }
