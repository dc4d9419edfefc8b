// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/npv-calc/pkg/configprocessor"
	"github.com/iwvelando/npv-calc/pkg/constants"
	"github.com/iwvelando/npv-calc/pkg/finance"
	"github.com/iwvelando/npv-calc/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for npv-calc.
type Configuration struct {
	DiscountRate float64       `yaml:"discountRate"` // percent
	Projects     []Project     `yaml:"projects"`
	Logging      LoggingConfig `yaml:"logging,omitempty"`
	Output       OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Project is a configured investment. Cash flows are given either as the
// comma-separated text a user would type or as a YAML list of amounts.
type Project struct {
	Name      string    `yaml:"name"`
	CashFlows string    `yaml:"cashFlows,omitempty"`
	Amounts   []float64 `yaml:"amounts,omitempty"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix("NPV")
	v.AutomaticEnv()
	v.SetDefault("discountRate", constants.DefaultDiscountRatePercent)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// Validate returns an error for settings that make valuation impossible.
func (c *Configuration) Validate() error {
	if err := validation.ValidateDiscountRatePercent(c.DiscountRate); err != nil {
		return err
	}
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	for i, project := range c.Projects {
		if strings.TrimSpace(project.CashFlows) != "" && len(project.Amounts) > 0 {
			return fmt.Errorf("project %d (%s): set either cashFlows or amounts, not both", i+1, project.Name)
		}
	}
	return nil
}

// CashFlowValues returns the project's amounts, parsing the text form when
// no list was given.
func (p Project) CashFlowValues() ([]float64, error) {
	if len(p.Amounts) > 0 {
		return append([]float64(nil), p.Amounts...), nil
	}
	return finance.ParseCashFlows(p.CashFlows)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	// Projects that fail to parse are reported as errors when the registry
	// is built, so they are left out here.
	var projects []configprocessor.ProjectInfo
	for _, project := range c.Projects {
		flows, err := project.CashFlowValues()
		if err != nil {
			continue
		}
		projects = append(projects, configprocessor.ProjectInfo{
			Name:      project.Name,
			CashFlows: flows,
		})
	}

	processor := configprocessor.NewProcessor()
	return processor.ValidateConfiguration(c.DiscountRate, projects)
}
