// Package pdflatex wraps the pdflatex binary that turns an assembled TeX file
// into a PDF.
//
// The client checks that the source exists before invoking the compiler and
// that the expected PDF exists afterwards, so a run that exits cleanly but
// produces nothing is still reported as a failure.
package pdflatex
