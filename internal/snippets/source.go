package snippets

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"papeterie/internal/logging"
)

// Source parses fragments for a fixed list of known names.
type Source struct {
	Names  []string
	Logger *slog.Logger
}

// NewSource returns a Source for names that logs dropped fragments to logger.
func NewSource(names []string, logger *slog.Logger) Source {
	return Source{Names: names, Logger: logging.NewComponentLogger(logger, "snippets")}
}

// FromFile reads a snippet file and parses it with FromText.
func (src Source) FromFile(path string, checkCompleteness bool) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snippet file: %w", err)
	}
	set, err := src.FromText(string(data), checkCompleteness)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// FromText splits text into blocks. A line equal to one of the source's names,
// ignoring surrounding whitespace, starts a block; the following lines up to
// the next name line, each trimmed and joined by newlines, form its text.
func (src Source) FromText(text string, checkCompleteness bool) (*Set, error) {
	if len(src.Names) == 0 {
		return nil, fmt.Errorf("%w: no snippet names given", ErrEmptyInput)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no snippet text given", ErrEmptyInput)
	}

	known := make(map[string]struct{}, len(src.Names))
	for _, name := range src.Names {
		known[strings.TrimSpace(name)] = struct{}{}
	}

	blocks := make(map[string]string)
	var (
		current string
		started bool
		body    []string
	)
	flush := func() {
		joined := strings.TrimSpace(strings.Join(body, "\n"))
		if started {
			blocks[current] = joined
		} else if joined != "" {
			src.logger().Info("ignoring text before first snippet name", logging.Int("lines", len(body)))
		}
		body = body[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if _, ok := known[trimmed]; ok {
			flush()
			current = trimmed
			started = true
			continue
		}
		body = append(body, trimmed)
	}
	flush()

	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: none of %v present", ErrNoBlocksFound, src.Names)
	}
	return src.FromMapping(blocks, checkCompleteness)
}

// FromMapping builds a set from mapping, keeping only known names.
func (src Source) FromMapping(mapping map[string]string, checkCompleteness bool) (*Set, error) {
	if len(src.Names) == 0 {
		return nil, fmt.Errorf("%w: no snippet names given", ErrEmptyInput)
	}
	if len(mapping) == 0 {
		return nil, fmt.Errorf("%w: no snippets given", ErrEmptyInput)
	}

	known := make(map[string]struct{}, len(src.Names))
	for _, name := range src.Names {
		known[Canonical(name)] = struct{}{}
	}
	kept := make(map[string]string, len(mapping))
	for name, text := range mapping {
		if _, ok := known[Canonical(name)]; !ok {
			src.logger().Info("removing superfluous snippet", logging.String("snippet", name))
			continue
		}
		kept[name] = text
	}

	set, err := New(kept)
	if err != nil {
		return nil, err
	}
	if checkCompleteness {
		if err := set.CheckCompleteness(src.Names); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (src Source) logger() *slog.Logger {
	if src.Logger == nil {
		return logging.NewNop()
	}
	return src.Logger
}
