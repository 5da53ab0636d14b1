// Package notifications delivers run events via ntfy.
//
// The ntfy topic comes from config.toml; when no topic is configured the
// service degrades to a no-op. Each event kind can be toggled individually so
// a nightly cron run can report only its summary and any errors.
package notifications
