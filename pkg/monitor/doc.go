// Package monitor classifies chat messages as they arrive.
//
// A Source yields ChatMessages (JSON lines or plain text from stdin or a
// file, or JSON from a Kafka topic). For each message Monitor skips IDs it
// has already seen and texts shorter than MinTextLength, classifies the
// rest, optionally writes a brief for design requests, records the result in
// history and publishes it to a Sink (JSON lines on stdout, or a Kafka
// topic). One bad message never stops the stream.
//
//	src, _ := monitor.OpenSource(cfg.Monitor, os.Stdin)
//	sink, _ := monitor.OpenSink(cfg.Monitor, os.Stdout)
//	m, err := monitor.New(monitor.Config{Source: src, Sink: sink, Analyzer: rules})
//	stats, err := m.Run(ctx)
package monitor
