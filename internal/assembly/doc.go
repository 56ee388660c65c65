// Package assembly drives document assembly: for every recipient it renders
// the snippet set, injects the picture path, optionally signs selected
// fragments, and compiles the layout to a PDF; afterwards it concatenates all
// recipients' PDFs in order and delivers the result.
//
// Processing is sequential and fail-fast. Each recipient moves through the
// stages declared in stages.go; every transition is logged with the stage and
// recipient index and recorded in the run Report. The working directory is
// removed after a successful run unless intermediates are kept, and always
// kept after a failure so the artifacts can be inspected.
package assembly
