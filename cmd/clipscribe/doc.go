// Package main hosts the clipscribe CLI entrypoint and command graph.
//
// The Cobra command tree runs transcription batches, manages clip records in
// the SQLite store, checks that tools and directories are ready, and
// scaffolds configuration. Commands resolve configuration once through
// commandContext; the work itself lives in the internal packages.
package main
