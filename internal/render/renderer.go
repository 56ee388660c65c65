// Package render turns one recipient record into a complete snippet set by
// executing a sub-template per fragment with the record's fields.
//
// Sub-templates use text/template syntax and see the record as a map, so a
// field is referenced as {{.Opening}} or, for names that are not identifiers,
// {{index . "First Name"}}. Referencing a field the record does not carry
// through the dot syntax fails the rendering.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"text/template"

	"papeterie/internal/recipient"
	"papeterie/internal/snippets"
)

// ErrTemplate reports a sub-template that could not be read, parsed or executed.
var ErrTemplate = errors.New("sub-template error")

// SubTemplates maps fragment names to parsed sub-templates.
type SubTemplates map[string]*template.Template

// LoadSubTemplates reads and parses the sub-template file for each fragment.
func LoadSubTemplates(paths map[string]string) (SubTemplates, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no sub-templates configured", snippets.ErrEmptyInput)
	}
	templates := make(SubTemplates, len(paths))
	for _, name := range slices.Sorted(maps.Keys(paths)) {
		data, err := os.ReadFile(paths[name])
		if err != nil {
			return nil, fmt.Errorf("%w: read %s for %s: %v", ErrTemplate, paths[name], name, err)
		}
		tmpl, err := Parse(name, string(data))
		if err != nil {
			return nil, err
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// Parse parses one sub-template body.
func Parse(name, body string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrTemplate, name, err)
	}
	return tmpl, nil
}

// Renderer renders a fixed set of sub-templates for many recipients.
type Renderer struct {
	templates SubTemplates
	source    snippets.Source
}

// New returns a Renderer for templates. Dropped fragments are logged to logger.
func New(templates SubTemplates, logger *slog.Logger) (*Renderer, error) {
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w: no sub-templates configured", snippets.ErrEmptyInput)
	}
	return &Renderer{
		templates: templates,
		source:    snippets.NewSource(slices.Sorted(maps.Keys(templates)), logger),
	}, nil
}

// Names returns the fragment names the renderer produces, sorted.
func (r *Renderer) Names() []string {
	return slices.Clone(r.source.Names)
}

// Render executes every sub-template with record and returns the complete set.
func (r *Renderer) Render(record recipient.Record) (*snippets.Set, error) {
	data := record.Map()
	rendered := make(map[string]string, len(r.templates))
	for _, name := range r.source.Names {
		var buf bytes.Buffer
		if err := r.templates[name].Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("%w: render %s: %v", ErrTemplate, name, err)
		}
		rendered[name] = buf.String()
	}
	return r.source.FromMapping(rendered, true)
}
