// Package recorder writes history records in the background.
//
// Record assigns an ID, queues the record on a buffered channel and returns.
// A single worker stores queued records, each write bounded by the configured
// timeout. When the queue is full the record is dropped, logged and counted
// in the history_dropped_total metric. Close drains the queue.
package recorder
