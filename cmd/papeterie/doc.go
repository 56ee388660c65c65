// Package main hosts the papeterie CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into assembly runs: a
// serial letter with one document per recipient, a single letter built from
// a fragments file, a dry listing of the resolved fragments, and environment
// checks. Configuration resolution, input validation and run logging are
// centralized here; the document work itself lives in internal/assembly.
package main
