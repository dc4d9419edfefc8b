package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/npv-calc/pkg/constants"
	"github.com/iwvelando/npv-calc/pkg/finance"
	"github.com/iwvelando/npv-calc/pkg/validation"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config file",
			configPath: filepath.Join("..", "..", constants.ExampleConfigFile),
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration(filepath.Join("..", "..", constants.ExampleConfigFile))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.DiscountRate != 10 {
		t.Errorf("expected discount rate 10, got %v", conf.DiscountRate)
	}
	if len(conf.Projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(conf.Projects))
	}
	if conf.Projects[0].Name != "Project A" {
		t.Errorf("expected first project 'Project A', got %q", conf.Projects[0].Name)
	}

	flows, err := conf.Projects[0].CashFlowValues()
	if err != nil {
		t.Fatalf("CashFlowValues() error = %v", err)
	}
	expected := []float64{-20, 10, 10, 20, 30}
	if len(flows) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, flows)
	}
	for i := range expected {
		if flows[i] != expected[i] {
			t.Errorf("flow %d: expected %v, got %v", i, expected[i], flows[i])
		}
	}

	solar, err := conf.Projects[2].CashFlowValues()
	if err != nil {
		t.Fatalf("CashFlowValues() error = %v", err)
	}
	if len(solar) != 9 || solar[0] != -12000 || solar[8] != 1800 {
		t.Errorf("unexpected amounts for Solar roof: %v", solar)
	}

	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected pretty output, got %q", conf.Output.Format)
	}
	if conf.Logging.Format != "console" {
		t.Errorf("expected console logging, got %q", conf.Logging.Format)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigurationFromReaderDefaultsRate(t *testing.T) {
	yamlData := `
projects:
  - name: Only
    cashFlows: "-100, 110"
`
	conf, err := LoadConfigurationFromReader(strings.NewReader(yamlData))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.DiscountRate != constants.DefaultDiscountRatePercent {
		t.Errorf("expected default discount rate %v, got %v", constants.DefaultDiscountRatePercent, conf.DiscountRate)
	}
	if len(conf.Projects) != 1 || conf.Projects[0].CashFlows != "-100, 110" {
		t.Errorf("unexpected projects: %+v", conf.Projects)
	}
}

func TestLoadConfigurationFromReaderInvalidYAML(t *testing.T) {
	_, err := LoadConfigurationFromReader(strings.NewReader("projects: [unterminated"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadConfigurationNumericCashFlows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlData := `
discountRate: 5
projects:
  - name: Deposit
    cashFlows: -500
`
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	flows, err := conf.Projects[0].CashFlowValues()
	if err != nil {
		t.Fatalf("CashFlowValues() error = %v", err)
	}
	if len(flows) != 1 || flows[0] != -500 {
		t.Errorf("expected [-500], got %v", flows)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Configuration
		wantErr error
	}{
		{
			name: "Valid",
			conf: Configuration{DiscountRate: 10, Projects: []Project{{Name: "A", CashFlows: "-1, 2"}}},
		},
		{
			name:    "Rate above range",
			conf:    Configuration{DiscountRate: 150},
			wantErr: validation.ErrRateOutOfRange,
		},
		{
			name:    "Negative rate",
			conf:    Configuration{DiscountRate: -1},
			wantErr: validation.ErrRateOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRejectsBadOutputFormatAndDoubleCashFlows(t *testing.T) {
	conf := Configuration{DiscountRate: 10, Output: OutputConfig{Format: "xml"}}
	if err := conf.Validate(); err == nil {
		t.Error("expected error for unsupported output format")
	}

	conf = Configuration{
		DiscountRate: 10,
		Projects:     []Project{{Name: "Both", CashFlows: "-1, 2", Amounts: []float64{-1, 2}}},
	}
	if err := conf.Validate(); err == nil || !strings.Contains(err.Error(), "not both") {
		t.Errorf("expected 'not both' error, got %v", err)
	}
}

func TestCashFlowValuesMalformed(t *testing.T) {
	_, err := Project{Name: "Bad", CashFlows: "-20, abc, 10"}.CashFlowValues()
	if !errors.Is(err, finance.ErrMalformedCashFlows) {
		t.Errorf("expected ErrMalformedCashFlows, got %v", err)
	}
}

func TestCashFlowValuesCopiesAmounts(t *testing.T) {
	project := Project{Name: "List", Amounts: []float64{-5, 6}}
	flows, err := project.CashFlowValues()
	if err != nil {
		t.Fatalf("CashFlowValues() error = %v", err)
	}
	flows[0] = 100
	if project.Amounts[0] != -5 {
		t.Error("CashFlowValues() must not alias the configured amounts")
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf := Configuration{
		DiscountRate: 0,
		Projects: []Project{
			{Name: "A", CashFlows: "-20, 30"},
			{Name: "A", CashFlows: "-10, 30"},
			{Name: "Broken", CashFlows: "x"},
		},
	}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d: %v", len(warnings), warnings)
	}

	clean := Configuration{DiscountRate: 10, Projects: []Project{{Name: "A", CashFlows: "-20, 30"}}}
	if warnings := clean.ValidateConfiguration(); warnings != nil {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
