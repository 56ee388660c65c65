// Package snippets holds named text fragments destined for substitution into a
// layout template.
//
// A Set maps upper-case fragment names to text. Construction enforces that no
// name is a substring of another, because the layout renderer matches names
// as literal needles inside the template body and a shorter name would match
// inside a longer one. Every operation returns a new Set; the receiver is
// never modified.
//
// Source turns snippet files ("NAME" line followed by its text) or plain
// name/text mappings into a Set, dropping names the job does not know about.
package snippets
