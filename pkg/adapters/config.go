// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"fmt"

	"github.com/iwvelando/npv-calc/internal/config"
	"github.com/iwvelando/npv-calc/internal/registry"
)

// ProjectsToRegistry builds a fresh registry from configured projects. A
// later project with the same name replaces an earlier one, as it would if
// the user had typed them in order.
func ProjectsToRegistry(projects []config.Project) (*registry.Registry, error) {
	reg := registry.New()
	if _, err := LoadProjects(reg, projects); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadProjects adds every configured project to reg and returns how many
// were added. Either all projects are applied or, on error, none are.
func LoadProjects(reg *registry.Registry, projects []config.Project) (int, error) {
	staged := registry.New()
	for i, project := range projects {
		if err := addProject(staged, project); err != nil {
			return 0, fmt.Errorf("project %d (%s): %w", i+1, project.Name, err)
		}
	}

	for _, project := range projects {
		// Already validated against the staging registry.
		if err := addProject(reg, project); err != nil {
			return 0, err
		}
	}
	return len(projects), nil
}

func addProject(reg *registry.Registry, project config.Project) error {
	if len(project.Amounts) > 0 {
		if project.CashFlows != "" {
			return fmt.Errorf("set either cashFlows or amounts, not both")
		}
		return reg.Add(project.Name, project.Amounts)
	}
	_, err := reg.AddFromInput(project.Name, project.CashFlows)
	return err
}
