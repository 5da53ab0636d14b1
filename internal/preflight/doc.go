// Package preflight provides readiness checks for the filesystem paths, tools,
// and store that clipscribe depends on.
//
// These checks run in two contexts:
//   - The runner calls RunAll before a batch starts. If any check fails the
//     run is refused, so a missing ffmpeg does not flag every clip failed.
//   - The CLI "clipscribe check" command renders every result as a table.
package preflight
