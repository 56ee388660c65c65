// Package textutil converts plain text into LaTeX source and cleans up names
// used in file paths.
//
// Texify is applied to every snippet before it is substituted into the
// layout. It escapes the characters the letter layouts need (German umlauts,
// sharp s and a few accented vowels) and turns line breaks into explicit TeX
// line breaks, so multi-line addresses survive compilation.
package textutil
