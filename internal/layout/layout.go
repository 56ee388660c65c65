// Package layout renders the LaTeX layout of a document by replacing every
// fragment name that occurs in its body with the fragment's text.
//
// Names are plain upper-case words, not delimited placeholders, because TeX
// syntax collides with the delimiters of general-purpose template engines.
// Substitution happens in a single pass over the body, so text inserted for
// one fragment is never rescanned for the names of others.
package layout

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"papeterie/internal/snippets"
)

// ErrNoTemplate reports a missing or empty layout file name.
var ErrNoTemplate = errors.New("no layout template")

// Template is a parsed layout.
type Template struct {
	body string
}

// New wraps body as a layout.
func New(body string) *Template {
	return &Template{body: body}
}

// Load reads the layout stored at path.
func Load(path string) (*Template, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: no file name given", ErrNoTemplate)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: template file %s does not exist", ErrNoTemplate, path)
		}
		return nil, fmt.Errorf("read layout template: %w", err)
	}
	return New(string(data)), nil
}

func (t *Template) String() string {
	return t.body
}

// Render substitutes every fragment of set into the layout. Text without a
// matching name is copied unchanged; names absent from the body are ignored.
func (t *Template) Render(set *snippets.Set) string {
	if set == nil || set.Len() == 0 {
		return t.body
	}
	names := set.Names()
	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		text, _ := set.Get(name)
		pairs = append(pairs, name, text)
	}
	return strings.NewReplacer(pairs...).Replace(t.body)
}
