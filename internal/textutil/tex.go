package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	texLineBreak  = `\\`
	texEmptyLine  = `\leavevmode\\`
	texSharpS     = `{\ss}`
	trailingBreak = texLineBreak + "\n"
)

var texReplacer = strings.NewReplacer(
	"trasse", "tra"+texSharpS+"e",
	"\n", trailingBreak,
	"ü", `\"u`,
	"ö", `\"o`,
	"ä", `\"a`,
	"Ü", `\"U`,
	"Ö", `\"O`,
	"Ä", `\"A`,
	"é", `\'e`,
	"è", "\\`e",
	"à", "\\`a",
	"ç", `\c{c}`,
	"ß", texSharpS,
)

// Texify converts plain text into LaTeX source.
//
// Umlauts and sharp s become TeX accent macros, the legacy spelling "trasse"
// becomes "tra{\ss}e", and every newline becomes an explicit line break.
// Lines that would consist of a bare line break are prefixed with
// \leavevmode, and one trailing line break is dropped.
func Texify(text string) string {
	text = texReplacer.Replace(norm.NFC.String(text))
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == texLineBreak {
			lines[i] = texEmptyLine
		}
	}
	return strings.TrimSuffix(strings.Join(lines, "\n"), trailingBreak)
}

// TexifyTransform adapts Texify to the error-returning transform signature
// used by snippet sets.
func TexifyTransform(text string) (string, error) {
	return Texify(text), nil
}
