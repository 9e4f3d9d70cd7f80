package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/orbmatch/artifact"
	"github.com/hupe1980/orbmatch/descriptor"
)

// Loader builds the reference set of a category.
type Loader interface {
	Load(ctx context.Context, category string) (*ReferenceSet, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, category string) (*ReferenceSet, error)

// Load calls f(ctx, category).
func (f LoaderFunc) Load(ctx context.Context, category string) (*ReferenceSet, error) {
	return f(ctx, category)
}

// ctxCheckInterval is how many entries are decoded between context checks.
const ctxCheckInterval = 64

// ArtifactLoader decodes persisted artifacts into reference sets.
type ArtifactLoader struct {
	source artifact.Source
	logger *slog.Logger
}

// NewArtifactLoader creates a loader reading from source. A nil logger
// discards output.
func NewArtifactLoader(source artifact.Source, logger *slog.Logger) *ArtifactLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ArtifactLoader{source: source, logger: logger}
}

// Load reads the category's artifact and decodes every entry.
//
// Entries with an empty blob, an undecodable blob, or no descriptors are
// logged and skipped. The result may be empty.
func (l *ArtifactLoader) Load(ctx context.Context, category string) (*ReferenceSet, error) {
	a, err := l.source.Read(ctx, category)
	if err != nil {
		switch {
		case errors.Is(err, artifact.ErrNotFound):
			err = fmt.Errorf("%w: %w", ErrArtifactMissing, err)
		case errors.Is(err, artifact.ErrMalformed):
			err = fmt.Errorf("%w: %w", ErrArtifactMalformed, err)
		}
		return nil, &LoadError{Category: category, Err: err}
	}

	if err := a.Validate(); err != nil {
		return nil, &LoadError{Category: category, Err: fmt.Errorf("%w: %w", ErrArtifactMalformed, err)}
	}

	log := l.logger.With(slog.String("category", category))
	set := &ReferenceSet{
		entries: make([]Entry, 0, a.Len()),
		index:   make(map[string]int, a.Len()),
	}

	for i, name := range a.TemplateNames {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, &LoadError{Category: category, Err: err}
			}
		}

		blob := a.DescriptorsList[i]
		if blob == "" {
			log.Warn("skipping template without descriptors", slog.String("template", name))
			continue
		}

		c, err := descriptor.Decode(blob)
		if err != nil {
			log.Warn("skipping undecodable template", slog.String("template", name), slog.Any("error", err))
			continue
		}
		if len(c) == 0 {
			log.Warn("skipping template without descriptors", slog.String("template", name))
			continue
		}

		if set.put(Entry{Name: name, Descriptors: c}) {
			log.Warn("duplicate template name, keeping last", slog.String("template", name))
		}
	}

	return set, nil
}
