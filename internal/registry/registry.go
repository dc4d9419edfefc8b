// Package registry keeps the named projects of one interactive session.
//
// A Registry is not safe for concurrent use. Each session owns its own
// instance; callers that share one across goroutines must serialize access.
package registry

import (
	"fmt"
	"strings"

	"github.com/iwvelando/npv-calc/pkg/finance"
)

// ErrMissingInput is returned when a project name or its cash flows were not
// supplied.
var ErrMissingInput = fmt.Errorf("%w: missing name or cash flows", finance.ErrInvalidInput)

// Project is a named cash-flow sequence. CashFlows[0] is the initial outlay.
type Project struct {
	Name      string
	CashFlows []float64
}

// Registry maps project names to cash flows and remembers the order in which
// distinct names were first added.
type Registry struct {
	order    []string
	projects map[string][]float64
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{projects: make(map[string][]float64)}
}

// Add inserts a project or replaces the cash flows of an existing one.
func (r *Registry) Add(name string, cashFlows []float64) error {
	_, err := r.Put(name, cashFlows)
	return err
}

// Put is Add that also reports whether an existing project was overwritten.
// An overwritten project keeps its original position.
func (r *Registry) Put(name string, cashFlows []float64) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("%w: project name is blank", ErrMissingInput)
	}
	if len(cashFlows) == 0 {
		return false, fmt.Errorf("project %q: %w", name, finance.ErrEmptyCashFlows)
	}

	flows := append([]float64(nil), cashFlows...)
	_, exists := r.projects[name]
	if !exists {
		r.order = append(r.order, name)
	}
	r.projects[name] = flows
	return exists, nil
}

// AddFromInput parses the raw comma-separated cash-flow text and adds the
// project. Nothing is stored unless the whole input is valid.
func (r *Registry) AddFromInput(name, rawCashFlows string) (bool, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(rawCashFlows) == "" {
		return false, ErrMissingInput
	}

	flows, err := finance.ParseCashFlows(rawCashFlows)
	if err != nil {
		return false, err
	}
	return r.Put(name, flows)
}

// Get returns a copy of the named project.
func (r *Registry) Get(name string) (Project, bool) {
	flows, ok := r.projects[strings.TrimSpace(name)]
	if !ok {
		return Project{}, false
	}
	return Project{Name: strings.TrimSpace(name), CashFlows: append([]float64(nil), flows...)}, true
}

// List returns every project in insertion order.
func (r *Registry) List() []Project {
	out := make([]Project, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Project{
			Name:      name,
			CashFlows: append([]float64(nil), r.projects[name]...),
		})
	}
	return out
}

// All returns the projects keyed by name.
func (r *Registry) All() map[string][]float64 {
	out := make(map[string][]float64, len(r.projects))
	for name, flows := range r.projects {
		out[name] = append([]float64(nil), flows...)
	}
	return out
}

// Len reports the number of distinct projects.
func (r *Registry) Len() int {
	return len(r.order)
}
