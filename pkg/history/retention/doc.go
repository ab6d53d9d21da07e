// Package retention prunes history by age and record count, either on
// demand (Pruner.Prune, used by "scout history prune") or on a cron schedule
// (Scheduler, started by "scout serve").
package retention
