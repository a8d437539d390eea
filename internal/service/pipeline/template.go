package pipeline

import (
	"fmt"
	"strings"

	"garment-erp/internal/storage"
)

// ValidateTemplate checks a template before it is stored and returns it with
// canonical skill levels. Operation ids and sequences must be unique and
// dependencies must name operations of the same template.
func ValidateTemplate(t storage.Template) (storage.Template, error) {
	const op = "pipeline.ValidateTemplate"

	t.ID = strings.TrimSpace(t.ID)
	if t.ID == "" {
		return storage.Template{}, fmt.Errorf("%s: template id is empty: %w", op, ErrInvalidInput)
	}
	if len(t.Operations) == 0 {
		return storage.Template{}, fmt.Errorf("%s: template %q has no operations: %w", op, t.ID, ErrInvalidInput)
	}

	ids := make(map[string]bool, len(t.Operations))
	sequences := make(map[int]bool, len(t.Operations))
	operations := make([]storage.Operation, len(t.Operations))

	for i, o := range t.Operations {
		if o.ID == "" {
			return storage.Template{}, fmt.Errorf("%s: operation %d has no id: %w", op, i+1, ErrInvalidInput)
		}
		if ids[o.ID] {
			return storage.Template{}, fmt.Errorf("%s: duplicate operation id %q: %w", op, o.ID, ErrInvalidInput)
		}
		if o.Sequence < 1 || sequences[o.Sequence] {
			return storage.Template{}, fmt.Errorf("%s: operation %q has invalid or duplicate sequence %d: %w", op, o.ID, o.Sequence, ErrInvalidInput)
		}
		ids[o.ID] = true
		sequences[o.Sequence] = true

		level, ok := NormalizeSkillLevel(o.SkillLevel)
		if !ok {
			return storage.Template{}, fmt.Errorf("%s: operation %q has unknown skill level %q: %w", op, o.ID, o.SkillLevel, ErrInvalidInput)
		}
		o.SkillLevel = level
		operations[i] = o
	}

	for _, o := range operations {
		for _, d := range o.Dependencies {
			if !ids[d] || d == o.ID {
				return storage.Template{}, fmt.Errorf("%s: operation %q depends on unknown operation %q: %w", op, o.ID, d, ErrInvalidInput)
			}
		}
	}

	t.Operations = operations
	return t, nil
}
