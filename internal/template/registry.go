package template

import (
	"fmt"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/samber/lo"
)

// NotFoundError is returned for an unknown template id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template not found: %s", e.ID)
}

// Registry is a read-only catalog of templates. It is built once and is safe
// for concurrent use without locking since nothing mutates it afterwards.
type Registry struct {
	order     []string
	templates map[string]Config
	def       string
}

// NewRegistry builds a registry from configs, keeping their order. Exactly
// one config must be marked as default.
func NewRegistry(configs ...Config) (*Registry, error) {
	r := &Registry{
		order:     make([]string, 0, len(configs)),
		templates: make(map[string]Config, len(configs)),
	}

	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.templates[c.ID]; exists {
			return nil, ierr.NewErrorf("duplicate template id %s", c.ID).
				WithHint("Template ids must be unique").
				Mark(ierr.ErrAlreadyExists)
		}
		r.order = append(r.order, c.ID)
		r.templates[c.ID] = c.Clone()
	}

	defaults := lo.Filter(configs, func(c Config, _ int) bool { return c.IsDefault })
	if len(defaults) != 1 {
		return nil, ierr.NewErrorf("expected exactly one default template, found %d", len(defaults)).
			WithHint("Exactly one template must be marked as default").
			WithReportableDetails(map[string]any{
				"defaults": lo.Map(defaults, func(c Config, _ int) string { return c.ID }),
			}).
			Mark(ierr.ErrValidation)
	}
	r.def = defaults[0].ID

	return r, nil
}

// NewDefaultRegistry builds the registry with the built-in catalog
func NewDefaultRegistry() (*Registry, error) {
	return NewRegistry(Builtin()...)
}

// Get returns a copy of the template with the given id
func (r *Registry) Get(id string) (Config, error) {
	c, ok := r.templates[id]
	if !ok {
		return Config{}, ierr.WithError(&NotFoundError{ID: id}).
			WithHintf("Template %s does not exist", id).
			WithReportableDetails(map[string]any{
				"template_id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return c.Clone(), nil
}

// Default returns a copy of the default template
func (r *Registry) Default() Config {
	return r.templates[r.def].Clone()
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.templates[id]
	return ok
}

// List returns every template in registration order
func (r *Registry) List() []Config {
	return lo.Map(r.order, func(id string, _ int) Config {
		return r.templates[id].Clone()
	})
}

// ListByCategory returns the templates of a category in registration order
func (r *Registry) ListByCategory(category types.TemplateCategory) []Config {
	out := make([]Config, 0)
	for _, id := range r.order {
		if c := r.templates[id]; c.Category == category {
			out = append(out, c.Clone())
		}
	}
	return out
}

// IsNotFound reports whether err is an unknown template error
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return ierr.As(err, &nf)
}
