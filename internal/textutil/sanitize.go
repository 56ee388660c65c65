package textutil

import "strings"

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	" ", "_",
)

// SanitizeFileName makes a snippet name usable as part of a file name.
// Returns "unnamed" when nothing usable is left.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
	if name == "" {
		return "unnamed"
	}
	return name
}
