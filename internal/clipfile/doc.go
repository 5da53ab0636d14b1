// Package clipfile moves clip lists in and out of the store.
//
// Export writes completed transcripts as JSON, YAML, or an xlsx workbook.
// ReadURLs loads clip links for import from plain text (one per line, blank
// lines and # comments skipped), from a JSON or YAML export, or from the
// first sheet of a workbook whose header names a url/link column.
package clipfile
