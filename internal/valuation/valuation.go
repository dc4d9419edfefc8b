// Package valuation applies the NPV formula to every project of a registry.
package valuation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/npv-calc/internal/config"
	"github.com/iwvelando/npv-calc/internal/registry"
	"github.com/iwvelando/npv-calc/pkg/adapters"
	"github.com/iwvelando/npv-calc/pkg/finance"
	"github.com/iwvelando/npv-calc/pkg/mathutil"
	"github.com/iwvelando/npv-calc/pkg/validation"
	"go.uber.org/zap"
)

// ErrEmptyRegistry is returned when a valuation is requested before any
// project has been added.
var ErrEmptyRegistry = errors.New("no projects to value, add at least one project first")

// ErrRateOutOfRange is returned by RateFromPercent for percentages outside [0, 100].
var ErrRateOutOfRange = validation.ErrRateOutOfRange

// Result is the NPV of one project.
type Result struct {
	Name string
	NPV  float64
}

// RateFromPercent converts a user-entered percentage in [0, 100] into the
// fractional rate ComputeNPV expects.
func RateFromPercent(percent float64) (float64, error) {
	if err := validation.ValidateDiscountRatePercent(percent); err != nil {
		return 0, err
	}
	return mathutil.PercentToFraction(percent), nil
}

// Evaluate computes the NPV of every project in reg, in registry order, at
// the fractional discount rate.
func Evaluate(logger *zap.Logger, reg *registry.Registry, rate float64) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if reg == nil || reg.Len() == 0 {
		return nil, ErrEmptyRegistry
	}

	projects := reg.List()
	results := make([]Result, 0, len(projects))
	for _, project := range projects {
		npv, err := finance.ComputeNPV(project.CashFlows, rate)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", project.Name, err)
		}
		logger.Debug("computed project NPV",
			zap.String("op", "valuation.Evaluate"),
			zap.String("project", project.Name),
			zap.Int("periods", len(project.CashFlows)),
			zap.Float64("rate", rate),
			zap.Float64("npv", npv),
		)
		results = append(results, Result{Name: project.Name, NPV: npv})
	}

	return results, nil
}

// GetValuations builds a registry from the configured projects and values
// them at the configured discount rate percentage.
func GetValuations(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rate, err := RateFromPercent(conf.DiscountRate)
	if err != nil {
		return nil, err
	}

	reg, err := adapters.ProjectsToRegistry(conf.Projects)
	if err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("valuing %d projects at %g%%", reg.Len(), conf.DiscountRate),
		zap.String("op", "valuation.GetValuations"),
	)
	return Evaluate(logger, reg, rate)
}
