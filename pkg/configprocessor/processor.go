// Package configprocessor provides shared configuration processing utilities.
package configprocessor

import (
	"fmt"
	"strings"
)

// ProjectInfo represents project configuration information
type ProjectInfo struct {
	Name      string
	CashFlows []float64
}

// Processor handles configuration processing and validation
type Processor struct{}

// NewProcessor creates a new configuration processor
func NewProcessor() *Processor {
	return &Processor{}
}

// ValidateConfiguration inspects already-parsed projects and returns
// warnings about inputs that are valid but probably not what the user meant.
func (p *Processor) ValidateConfiguration(discountRatePercent float64, projects []ProjectInfo) []string {
	var warnings []string

	if len(projects) == 0 {
		warnings = append(warnings, "No projects configured - there is nothing to value")
	}

	if discountRatePercent == 0 && len(projects) > 0 {
		warnings = append(warnings, "Discount rate is 0% - NPV equals the undiscounted sum of cash flows")
	}

	seen := make(map[string]int)
	for i, project := range projects {
		name := strings.TrimSpace(project.Name)
		if first, ok := seen[name]; ok {
			warnings = append(warnings, fmt.Sprintf("Project '%s' is defined more than once (entries %d and %d) - the later entry replaces the earlier one",
				name, first+1, i+1))
		} else {
			seen[name] = i
		}

		if len(project.CashFlows) == 1 {
			warnings = append(warnings, fmt.Sprintf("Project '%s' has only an initial outlay - its NPV does not depend on the discount rate", name))
		}

		if len(project.CashFlows) > 1 && allSameSign(project.CashFlows) {
			warnings = append(warnings, fmt.Sprintf("Project '%s' has cash flows that never change sign", name))
		}
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}

func allSameSign(flows []float64) bool {
	var positive, negative bool
	for _, flow := range flows {
		switch {
		case flow > 0:
			positive = true
		case flow < 0:
			negative = true
		}
	}
	return !(positive && negative)
}
