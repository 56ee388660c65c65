package assembly

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"papeterie/internal/logging"
	"papeterie/internal/snippets"
)

// LetterSnippets assembles the fragments of a single letter. Fragments from
// defaultsFile, when it exists, are overridden by those in snippetFile; the
// result must contain every name.
func LetterSnippets(names []string, defaultsFile, snippetFile string, logger *slog.Logger) (*snippets.Set, error) {
	source := snippets.NewSource(names, logger)
	logger = logging.NewComponentLogger(logger, "assembly")

	var defaults *snippets.Set
	if defaultsFile != "" {
		if _, err := os.Stat(defaultsFile); err == nil {
			defaults, err = source.FromFile(defaultsFile, false)
			if err != nil {
				return nil, fmt.Errorf("default snippets: %w", err)
			}
			logger.Info("loaded default snippets", logging.String("path", defaultsFile), logging.Int("count", defaults.Len()))
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat default snippets: %w", err)
		}
	}
	if defaults == nil {
		logger.Info("no default snippets file found", logging.String("path", defaultsFile))
	}

	set, err := source.FromFile(snippetFile, false)
	if err != nil {
		return nil, err
	}
	if defaults != nil {
		if set, err = defaults.MergeWith(set, false); err != nil {
			return nil, err
		}
	}
	if err := set.CheckCompleteness(names); err != nil {
		return nil, err
	}
	return set, nil
}
