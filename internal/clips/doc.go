// Package clips persists clip records in SQLite.
//
// A clip record pairs a media URL with an optional transcript. A NULL
// transcription column means the clip has not completed the pipeline; an
// empty string is a completed clip whose audio held no speech. The failed
// flag marks clips whose last attempt broke during fetch, transcode, or
// transcription and keeps them out of later runs until cleared.
//
// Every state change is a single UPDATE or DELETE statement so an
// interrupted run never leaves a record half written. SQLITE_BUSY errors
// are retried with exponential backoff inside the store.
package clips
