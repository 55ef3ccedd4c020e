// Package store keeps the ingestion queue and its output in SQLite.
//
// The CMS enqueues files in FilePaths. The daemon takes pending paths,
// and for each processed file replaces the path with one DocObjs row and
// one LinkObjs row per cited title. Titles, link titles and the metadata
// JSON are stored base64 encoded, which is the form the CMS module reads.
// Rows the daemon could not process stay behind with failed set.
package store
