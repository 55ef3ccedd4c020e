// Package daemon runs the ingestion loop.
//
// Each cycle takes up to ParseLimit pending paths from the queue, extracts a
// record from every file with a bounded number of workers, commits the
// records, and notifies the CMS. When the queue and the CMS backlog are
// both empty the daemon waits for the rest of the cycle time before polling
// again; otherwise the next cycle starts immediately.
package daemon
