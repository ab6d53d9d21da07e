package monitor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Line formats for reader sources.
const (
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

const maxLineBytes = 1 << 20

// Source yields chat messages. Next returns io.EOF when the source is
// exhausted and a *DecodeError for a malformed message that can be skipped.
type Source interface {
	Next(ctx context.Context) (ChatMessage, error)
	Name() string
	Close() error
}

type line struct {
	text string
	err  error
}

// ReaderSource reads one message per line from an io.Reader.
type ReaderSource struct {
	name    string
	format  string
	channel string
	closer  io.Closer

	lines   chan line
	done    chan struct{}
	once    sync.Once
	lineNum int64
}

// NewReaderSource reads r in the given format. channel labels messages that
// do not carry one. If r is an io.Closer, Close closes it.
func NewReaderSource(name string, r io.Reader, format, channel string) (*ReaderSource, error) {
	if format != FormatJSONL && format != FormatText {
		return nil, fmt.Errorf("unknown message format %q", format)
	}

	s := &ReaderSource{
		name:    name,
		format:  format,
		channel: channel,
		lines:   make(chan line),
		done:    make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}

	go s.scan(r)
	return s, nil
}

// scan runs in its own goroutine so that Next can honour ctx while a read
// blocks.
func (s *ReaderSource) scan(r io.Reader) {
	defer close(s.lines)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		select {
		case s.lines <- line{text: scanner.Text()}:
		case <-s.done:
			return
		}
	}
	if err := scanner.Err(); err != nil {
		select {
		case s.lines <- line{err: err}:
		case <-s.done:
		}
	}
}

// Next returns the next non-blank line as a message.
func (s *ReaderSource) Next(ctx context.Context) (ChatMessage, error) {
	for {
		select {
		case <-ctx.Done():
			return ChatMessage{}, ctx.Err()
		case l, ok := <-s.lines:
			if !ok {
				return ChatMessage{}, io.EOF
			}
			if l.err != nil {
				return ChatMessage{}, l.err
			}
			s.lineNum++
			if strings.TrimSpace(l.text) == "" {
				continue
			}
			return s.decode(l.text)
		}
	}
}

func (s *ReaderSource) decode(text string) (ChatMessage, error) {
	if s.format == FormatText {
		return ChatMessage{
			ID:        fmt.Sprintf("%s:%s:%d", s.name, s.channel, s.lineNum),
			Channel:   s.channel,
			Text:      text,
			Timestamp: time.Now(),
		}, nil
	}

	var msg ChatMessage
	if err := json.Unmarshal([]byte(text), &msg); err != nil {
		return ChatMessage{}, &DecodeError{Source: s.name, Offset: s.lineNum, Cause: err}
	}
	return normalize(msg, s.channel, ""), nil
}

// Name identifies the source in logs and metrics.
func (s *ReaderSource) Name() string {
	return s.name
}

// Close stops reading.
func (s *ReaderSource) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}

// KafkaReader is the subset of *kafka.Reader used by KafkaSource.
type KafkaReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaSource consumes JSON chat messages from a Kafka topic. Offsets are
// committed by the consumer group as messages are read.
type KafkaSource struct {
	reader  KafkaReader
	channel string
}

// NewKafkaSource creates a consumer-group reader for topic.
func NewKafkaSource(brokers []string, topic, groupID string, maxWait time.Duration, channel string) *KafkaSource {
	return NewKafkaSourceWithReader(kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MaxWait:  maxWait,
		MinBytes: 1,
		MaxBytes: 10e6,
	}), channel)
}

// NewKafkaSourceWithReader wraps an existing reader.
func NewKafkaSourceWithReader(reader KafkaReader, channel string) *KafkaSource {
	return &KafkaSource{reader: reader, channel: channel}
}

// Next reads and decodes one message. A message without an ID takes its
// Kafka key.
func (s *KafkaSource) Next(ctx context.Context) (ChatMessage, error) {
	m, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return ChatMessage{}, err
	}

	var msg ChatMessage
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return ChatMessage{}, &DecodeError{Source: "kafka", Offset: m.Offset, Cause: err}
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = m.Time
	}
	return normalize(msg, s.channel, string(m.Key)), nil
}

// Name identifies the source in logs and metrics.
func (s *KafkaSource) Name() string {
	return "kafka"
}

// Close closes the reader.
func (s *KafkaSource) Close() error {
	return s.reader.Close()
}

// normalize fills missing fields: the ID from fallbackID or a new UUID, the
// channel from channel and the timestamp from the clock.
func normalize(msg ChatMessage, channel, fallbackID string) ChatMessage {
	if msg.ID == "" {
		msg.ID = fallbackID
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Channel == "" {
		msg.Channel = channel
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return msg
}
