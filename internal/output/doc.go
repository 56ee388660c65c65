// Package output owns the working directory of a run and names every file
// written into it.
//
// A Workspace holds the run log, the single-document artifacts and the final
// concatenated PDF. Indexed views name the per-recipient artifacts with a
// zero-padded three-digit index so they sort in recipient order.
package output
