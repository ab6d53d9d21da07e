package monitor

import (
	"fmt"
	"io"
	"os"

	"palette-hq/scout/pkg/config"
)

// Source and sink names.
const (
	SourceStdin = "stdin"
	SourceFile  = "file"
	SourceKafka = "kafka"

	SinkStdout = "stdout"
	SinkKafka  = "kafka"
	SinkNone   = "none"
)

// OpenSource creates the source selected by cfg.Source. stdin backs the
// "stdin" source.
func OpenSource(cfg config.MonitorConfig, stdin io.Reader) (Source, error) {
	switch cfg.Source {
	case SourceStdin, "":
		return NewReaderSource(SourceStdin, io.NopCloser(stdin), cfg.Format, cfg.Channel)
	case SourceFile:
		f, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open message file: %w", err)
		}
		s, err := NewReaderSource(SourceFile, f, cfg.Format, cfg.Channel)
		if err != nil {
			f.Close()
			return nil, err
		}
		return s, nil
	case SourceKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, fmt.Errorf("kafka source requires at least one broker")
		}
		return NewKafkaSource(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, cfg.Kafka.MaxWait, cfg.Channel), nil
	default:
		return nil, fmt.Errorf("unknown monitor source %q", cfg.Source)
	}
}

// OpenSink creates the sink selected by cfg.Sink. stdout backs the "stdout"
// sink.
func OpenSink(cfg config.MonitorConfig, stdout io.Writer) (Sink, error) {
	switch cfg.Sink {
	case SinkStdout, "":
		return NewWriterSink(stdout), nil
	case SinkKafka:
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, fmt.Errorf("kafka sink requires at least one broker")
		}
		return NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.ResultTopic), nil
	case SinkNone:
		return NopSink{}, nil
	default:
		return nil, fmt.Errorf("unknown monitor sink %q", cfg.Sink)
	}
}
