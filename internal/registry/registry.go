// Package registry holds the process-wide insight configuration: which
// dataset backs each id, how it renders and which fields it surfaces. It is
// built once at startup and read-only afterwards.
package registry

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"salesdash/domain/dataset"
	"salesdash/domain/insight"
	"salesdash/internal/errors"

	"gopkg.in/yaml.v3"
)

//go:embed registry.yaml
var embedded []byte

type document struct {
	Insights []insight.Descriptor `yaml:"insights"`
}

// Registry maps insight ids to descriptors
type Registry struct {
	byID  map[insight.ID]insight.Descriptor
	order []insight.ID
}

// Default builds the registry from the embedded document
func Default() (*Registry, error) {
	return Parse(embedded)
}

// MustDefault is Default for package-level wiring; the embedded document is
// covered by tests.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Load reads a registry file, or the embedded one when path is empty
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read registry %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a registry document
func Parse(data []byte) (*Registry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to parse registry")
	}
	if len(doc.Insights) == 0 {
		return nil, errors.ConfigInvalid("registry has no insights")
	}

	r := &Registry{byID: make(map[insight.ID]insight.Descriptor, len(doc.Insights))}
	for _, d := range doc.Insights {
		if err := validate(d); err != nil {
			return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "invalid registry entry")
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, errors.ConfigInvalid(fmt.Sprintf("duplicate insight id %q", d.ID))
		}
		r.byID[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

// validate adds the cross-checks between descriptors and payload tags
func validate(d insight.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	isCard := d.RenderKind == insight.CompositeHypothesisCard
	if isCard != insight.IsHypothesis(d.ID) {
		return fmt.Errorf("%s: hypothesis cards and hypothesis payloads must pair up", d.ID)
	}
	if isCard {
		payload, _ := insight.DecodePayload(d.ID, dataset.Row{})
		if !slices.Equal(payload.Fields(), d.RequiredFields) {
			return fmt.Errorf("%s: fields %v do not match payload fields %v", d.ID, d.RequiredFields, payload.Fields())
		}
	}
	return nil
}

// Lookup returns the descriptor for id
func (r *Registry) Lookup(id insight.ID) (insight.Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// IDs lists registered ids in document order
func (r *Registry) IDs() []insight.ID {
	return slices.Clone(r.order)
}

// Descriptors lists all descriptors in document order
func (r *Registry) Descriptors() []insight.Descriptor {
	out := make([]insight.Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// ByKind lists the descriptors rendering as kind
func (r *Registry) ByKind(kind insight.RenderKind) []insight.Descriptor {
	var out []insight.Descriptor
	for _, d := range r.Descriptors() {
		if d.RenderKind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Len reports the number of registered ids
func (r *Registry) Len() int {
	return len(r.order)
}
