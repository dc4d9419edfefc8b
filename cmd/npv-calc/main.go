package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/npv-calc/internal/config"
	"github.com/iwvelando/npv-calc/internal/registry"
	"github.com/iwvelando/npv-calc/internal/shell"
	"github.com/iwvelando/npv-calc/internal/valuation"
	"github.com/iwvelando/npv-calc/pkg/adapters"
	"github.com/iwvelando/npv-calc/pkg/constants"
	"github.com/iwvelando/npv-calc/pkg/output"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	rateFlag := flag.String("rate", "", "discount rate override in percent (0-100)")
	interactive := flag.Bool("interactive", false, "start an interactive session")
	flag.Parse()

	conf, synthesized, err := loadConfiguration(*configLocation, *interactive)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": %q}\n", *configLocation, err.Error())
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	conf.Output.Format = outputFormat

	if *rateFlag != "" {
		percent, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(*rateFlag), "%"), 64)
		if err != nil {
			logger.Fatal(fmt.Sprintf("invalid discount rate %q", *rateFlag),
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		conf.DiscountRate = percent
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Validate configuration and display any warnings
	for _, warning := range configurationWarnings(conf, synthesized) {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	if *interactive {
		runInteractive(logger, conf)
		return
	}

	reg, err := adapters.ProjectsToRegistry(conf.Projects)
	if err != nil {
		logger.Fatal("failed to load projects",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	rate, err := valuation.RateFromPercent(conf.DiscountRate)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	results, err := valuation.Evaluate(logger, reg, rate)
	if err != nil {
		logger.Fatal("failed to compute valuations",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Handle output.
	switch outputFormat {
	case constants.OutputFormatPretty:
		output.ProjectsTable(os.Stdout, reg.List())
		fmt.Println()
		output.PrettyFormat(os.Stdout, rate, results)
	case constants.OutputFormatCSV:
		if err := output.CsvFormat(os.Stdout, rate, results); err != nil {
			logger.Fatal("failed to write CSV output",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

// loadConfiguration reads the config file. An interactive session may start
// without one, in which case it begins with no projects at the default rate
// and synthesized is true.
func loadConfiguration(path string, interactive bool) (conf *config.Configuration, synthesized bool, err error) {
	if interactive {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return &config.Configuration{DiscountRate: constants.DefaultDiscountRatePercent}, true, nil
		}
	}
	conf, err = config.LoadConfiguration(path)
	return conf, false, err
}

// configurationWarnings returns the advisory warnings for a loaded config.
// A synthesized config is expected to be empty and gets none.
func configurationWarnings(conf *config.Configuration, synthesized bool) []string {
	if synthesized {
		return nil
	}
	return conf.ValidateConfiguration()
}

func runInteractive(logger *zap.Logger, conf *config.Configuration) {
	reg := registry.New()
	count, err := adapters.LoadProjects(reg, conf.Projects)
	if err != nil {
		logger.Fatal("failed to load projects",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if count > 0 {
		logger.Info(fmt.Sprintf("preloaded %d projects", count),
			zap.String("op", "main"),
		)
	}

	sh := shell.New(logger, reg, conf.DiscountRate, conf.Output.Format, os.Stdout)
	if err := sh.Run(os.Stdin); err != nil {
		logger.Fatal("interactive session failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
