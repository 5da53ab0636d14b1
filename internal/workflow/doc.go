// Package workflow drives one batch transcription run over the clip store.
//
// A run first rewrites CDN aliases and collapses duplicate records, then
// walks the candidate clips one at a time through validation, fetch,
// transcode, transcribe, and transcript normalization. Every per-clip error
// is caught at the clip boundary and turned into an outcome: a 404 deletes
// the record, a stage failure sets its durable failed flag, an interrupt
// leaves it untouched. The scratch directory is swept when the run returns,
// whatever happened before.
package workflow
