// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp clip IDs, stage names, and run identifiers
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify a stage
//     failure as a durable record failure or an interruption.
//   - A command runner abstraction that makes ffmpeg and whisper.cpp
//     invocations testable and captures exit codes and tool output.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
