// Package jobspec reads the per-job settings stored in a job's input
// directory: which fragments exist and where their sub-templates live, which
// fragments are signed, and which layout file to compile.
//
// The settings live in config.json, which may contain comments and trailing
// commas, or alternatively in config.toml. Relative paths are resolved
// against the input directory.
package jobspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"

	"papeterie/internal/services"
	"papeterie/internal/snippets"
)

const (
	// JSONFile is the JSON-with-comments job file name.
	JSONFile = "config.json"
	// TOMLFile is the TOML job file name.
	TOMLFile = "config.toml"
	// DefaultTemplate is the layout used when the job names none.
	DefaultTemplate = "papeterie.tex"
)

// ErrInvalid reports an unusable job specification.
var ErrInvalid = fmt.Errorf("%w: invalid job spec", services.ErrConfiguration)

type document struct {
	Snippets       map[string]string `json:"snippets" toml:"snippets"`
	SignedSnippets map[string]string `json:"signed_snippets" toml:"signed_snippets"`
	Template       string            `json:"template" toml:"template"`
}

// Spec is a resolved job specification.
type Spec struct {
	InputDir string
	// Snippets maps fragment names to absolute sub-template paths.
	Snippets map[string]string
	// SignedSnippets maps signed fragment names to the fragment they sign.
	SignedSnippets map[string]string
	// Template is the absolute layout path.
	Template string
	// Source is the file the spec was read from.
	Source string
}

// Load reads the job file found in inputDir.
func Load(inputDir string) (*Spec, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: input directory: %v", ErrInvalid, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: input path %s is not a directory", ErrInvalid, inputDir)
	}

	path, err := locate(inputDir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job spec: %w", err)
	}

	var doc document
	if filepath.Ext(path) == ".toml" {
		err = toml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(jsonc.ToJSON(data), &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}

	spec := newSpec(inputDir, doc)
	spec.Source = path
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

func locate(inputDir string) (string, error) {
	var found []string
	for _, name := range []string{JSONFile, TOMLFile} {
		candidate := filepath.Join(inputDir, name)
		if _, err := os.Stat(candidate); err == nil {
			found = append(found, candidate)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat job spec: %w", err)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: neither %s nor %s found in %s", ErrInvalid, JSONFile, TOMLFile, inputDir)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: both %s and %s present in %s", ErrInvalid, JSONFile, TOMLFile, inputDir)
	}
}

func newSpec(inputDir string, doc document) *Spec {
	resolve := func(p string) string {
		if p == "" {
			return ""
		}
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(inputDir, p)
	}
	spec := &Spec{
		InputDir:       inputDir,
		Snippets:       make(map[string]string, len(doc.Snippets)),
		SignedSnippets: make(map[string]string, len(doc.SignedSnippets)),
	}
	for name, path := range doc.Snippets {
		spec.Snippets[name] = resolve(strings.TrimSpace(path))
	}
	maps.Copy(spec.SignedSnippets, doc.SignedSnippets)
	template := strings.TrimSpace(doc.Template)
	if template == "" {
		template = DefaultTemplate
	}
	spec.Template = resolve(template)
	return spec
}

// Validate checks the fragment and signing configuration.
func (s *Spec) Validate() error {
	if len(s.Snippets) == 0 {
		return fmt.Errorf("%w: no snippets configured", ErrInvalid)
	}
	configured := make(map[string]struct{}, len(s.Snippets))
	for name, path := range s.Snippets {
		canonical := snippets.Canonical(name)
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty snippet name", ErrInvalid)
		}
		if canonical == snippets.PicturePath {
			return fmt.Errorf("%w: snippet name %s is reserved", ErrInvalid, name)
		}
		if path == "" {
			return fmt.Errorf("%w: snippet %s has no template file", ErrInvalid, name)
		}
		if _, dup := configured[canonical]; dup {
			return fmt.Errorf("%w: snippet %s is configured twice (names are case-insensitive)", ErrInvalid, canonical)
		}
		configured[canonical] = struct{}{}
	}

	sources := make(map[string]string, len(s.SignedSnippets))
	signedNames := make(map[string]struct{}, len(s.SignedSnippets))
	for _, signed := range slices.Sorted(maps.Keys(s.SignedSnippets)) {
		source := snippets.Canonical(s.SignedSnippets[signed])
		if _, ok := configured[source]; !ok {
			return fmt.Errorf("%w: signed snippet %s refers to unknown snippet %s", ErrInvalid, signed, s.SignedSnippets[signed])
		}
		if _, clash := configured[snippets.Canonical(signed)]; clash {
			return fmt.Errorf("%w: signed snippet %s collides with a snippet of the same name", ErrInvalid, signed)
		}
		if _, dup := signedNames[snippets.Canonical(signed)]; dup {
			return fmt.Errorf("%w: signed snippet %s is configured twice (names are case-insensitive)", ErrInvalid, snippets.Canonical(signed))
		}
		signedNames[snippets.Canonical(signed)] = struct{}{}
		if previous, dup := sources[source]; dup {
			return fmt.Errorf("%w: snippet %s is signed twice (as %s and %s)", ErrInvalid, source, previous, signed)
		}
		sources[source] = signed
	}

	// Every name ends up in one snippet set per recipient.
	all := map[string]string{snippets.PicturePath: ""}
	for name := range s.Snippets {
		all[name] = ""
	}
	for name := range s.SignedSnippets {
		all[name] = ""
	}
	if _, err := snippets.New(all); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Names returns the configured fragment names, sorted.
func (s *Spec) Names() []string {
	return slices.Sorted(maps.Keys(s.Snippets))
}

// Signed reports whether any fragment is signed.
func (s *Spec) Signed() bool {
	return len(s.SignedSnippets) > 0
}
