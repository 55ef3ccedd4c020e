// Package main provides the entry point for the lrvsp CLI.
//
// lrvsp turns legislation PDFs and markup files into plain text and the
// list of documents they cite, and runs the daemon that feeds the results
// to the CMS.
//
// Usage:
//
//	lrvsp extract <file>...
//	lrvsp enqueue <file>...
//	lrvsp daemon
//
// See --help for all available options.
package main

func main() {
	Execute()
}
