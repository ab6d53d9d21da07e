// Package history stores analysed messages.
//
// Every analysis made through the CLI, the HTTP API or the monitor can be
// kept as a Record: the message, the classifier output, an optional brief
// and its outcome. Subpackages provide the pieces:
//
//   - storage: memory, SQLite (pure Go or cgo driver) and PostgreSQL backends
//   - recorder: asynchronous writes through a buffered channel
//   - retention: age and count based pruning on a cron schedule
//   - export: JSON and CSV output
//
// # Example
//
//	store, err := storage.Open(ctx, cfg.History, logger)
//	if err != nil {
//		return err
//	}
//	rec := recorder.New(store, cfg.History.Recorder, logger, collector)
//	defer rec.Close()
//
//	rec.Record(history.NewRecord(analysis, history.SourceCLI))
package history
