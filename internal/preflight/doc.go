// Package preflight provides readiness checks for the programs, keys and
// filesystem paths papeterie depends on.
//
// These checks run in two contexts:
//   - The serial and letter commands call ForRun before touching any input,
//     so a missing compiler or unreadable file fails before a working
//     directory is created.
//   - The doctor command calls RunAll and renders every result.
package preflight
