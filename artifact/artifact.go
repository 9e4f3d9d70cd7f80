package artifact

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no artifact exists for a category.
	ErrNotFound = errors.New("artifact: not found")

	// ErrMalformed is returned when an artifact cannot be decoded or is
	// structurally invalid.
	ErrMalformed = errors.New("artifact: malformed")
)

// Artifact is the persisted reference catalog of one category.
type Artifact struct {
	TemplateNames   []string `json:"template_names"`
	DescriptorsList []string `json:"descriptors_list"`
}

// Len returns the number of templates.
func (a *Artifact) Len() int {
	return len(a.TemplateNames)
}

// Validate checks that both sequences are present and of equal length.
func (a *Artifact) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil artifact", ErrMalformed)
	}
	if a.TemplateNames == nil {
		return fmt.Errorf("%w: template_names is absent", ErrMalformed)
	}
	if a.DescriptorsList == nil {
		return fmt.Errorf("%w: descriptors_list is absent", ErrMalformed)
	}
	if len(a.TemplateNames) != len(a.DescriptorsList) {
		return fmt.Errorf("%w: %d template names but %d descriptor blobs",
			ErrMalformed, len(a.TemplateNames), len(a.DescriptorsList))
	}
	return nil
}

// Source resolves a category to its persisted artifact.
type Source interface {
	// Read returns the artifact of the category. It returns an error
	// satisfying errors.Is(err, ErrNotFound) when none exists.
	Read(ctx context.Context, category string) (*Artifact, error)
}
