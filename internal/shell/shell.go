// Package shell implements the line-oriented interactive session: one
// registry per session, commands read from an input stream and responses
// written to an output stream.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/npv-calc/internal/config"
	"github.com/iwvelando/npv-calc/internal/registry"
	"github.com/iwvelando/npv-calc/internal/valuation"
	"github.com/iwvelando/npv-calc/pkg/adapters"
	"github.com/iwvelando/npv-calc/pkg/constants"
	"github.com/iwvelando/npv-calc/pkg/finance"
	"github.com/iwvelando/npv-calc/pkg/output"
	"github.com/iwvelando/npv-calc/pkg/validation"
	"go.uber.org/zap"
)

// Prompt is written before each command is read.
const Prompt = "npv> "

const helpText = `Commands:
  add <name> = <cash flows>   add a project, e.g. add Project A = -20, 10, 10, 20, 30
                              (re-adding a name replaces its cash flows)
  list                        show the current projects
  rate [percent]              show or set the discount rate (0-100)
  npv [percent]               calculate the NPV of every project
  load <config file>          add the projects listed in a YAML config file
  help                        show this help
  quit                        end the session
`

// Shell is an interactive session. It owns its registry for its lifetime.
type Shell struct {
	logger       *zap.Logger
	registry     *registry.Registry
	ratePercent  float64
	outputFormat string
	out          io.Writer
	maxLineBytes int
}

// New creates a session that writes to out. A nil registry starts empty.
func New(logger *zap.Logger, reg *registry.Registry, ratePercent float64, outputFormat string, out io.Writer) *Shell {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = registry.New()
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	return &Shell{
		logger:       logger,
		registry:     reg,
		ratePercent:  ratePercent,
		outputFormat: outputFormat,
		out:          out,
		maxLineBytes: constants.MaxInputLineBytes,
	}
}

// Registry returns the session's registry.
func (s *Shell) Registry() *registry.Registry {
	return s.registry
}

// RatePercent returns the current discount rate percentage.
func (s *Shell) RatePercent() float64 {
	return s.ratePercent
}

// Run reads commands from in until it is exhausted or the user quits.
func (s *Shell) Run(in io.Reader) error {
	fmt.Fprintf(s.out, "Net Present Value (NPV) Calculator\nType 'help' for commands.\n")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(s.out, Prompt)
		line, err := readLine(reader, s.maxLineBytes)
		switch {
		case errors.Is(err, errLineTooLong):
			s.reject("read", err, fmt.Sprintf("Input line is longer than %d bytes and was ignored.", s.maxLineBytes))
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		if quit := s.Execute(line); quit {
			return nil
		}
	}
}

var errLineTooLong = errors.New("input line too long")

// readLine returns the next line without its terminator. A line longer than
// limit is consumed in full and reported as errLineTooLong.
func readLine(r *bufio.Reader, limit int) (string, error) {
	var (
		buf     []byte
		tooLong bool
		read    bool
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && read {
				break
			}
			return "", err
		}
		read = true
		if !tooLong {
			if len(buf)+len(chunk) > limit {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return "", errLineTooLong
	}
	return string(buf), nil
}

// Execute runs a single command line and reports whether the session should end.
func (s *Shell) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	command, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(command) {
	case "add":
		s.add(args)
	case "list", "ls":
		output.ProjectsTable(s.out, s.registry.List())
	case "rate":
		s.rate(args)
	case "npv", "calc":
		s.npv(args)
	case "load":
		s.load(args)
	case "help", "?":
		fmt.Fprint(s.out, helpText)
	case "quit", "exit":
		fmt.Fprintln(s.out, "Goodbye.")
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help' for commands.\n", command)
	}
	return false
}

func (s *Shell) add(args string) {
	name, flows, _ := strings.Cut(args, "=")

	overwritten, err := s.registry.AddFromInput(name, flows)
	switch {
	case errors.Is(err, registry.ErrMissingInput):
		s.reject("add", err, "Please provide both a project name and cash flows, e.g. add Project A = -20, 10, 10")
		return
	case errors.Is(err, finance.ErrMalformedCashFlows):
		s.reject("add", err, fmt.Sprintf("Invalid cash flow input (%v). Ensure all values are numbers separated by commas.", err))
		return
	case err != nil:
		s.reject("add", err, err.Error())
		return
	}

	name = strings.TrimSpace(name)
	s.logger.Debug("project added",
		zap.String("op", "shell.add"),
		zap.String("project", name),
		zap.Bool("overwritten", overwritten),
	)
	if overwritten {
		fmt.Fprintf(s.out, "Project '%s' updated successfully!\n", name)
		return
	}
	fmt.Fprintf(s.out, "Project '%s' added successfully!\n", name)
}

func (s *Shell) rate(args string) {
	if args == "" {
		fmt.Fprintf(s.out, "Discount rate: %g%%\n", s.ratePercent)
		return
	}

	percent, err := parsePercent(args)
	if err != nil {
		s.reject("rate", err, err.Error())
		return
	}
	s.ratePercent = percent
	fmt.Fprintf(s.out, "Discount rate set to %g%%\n", percent)
}

func (s *Shell) npv(args string) {
	percent := s.ratePercent
	if args != "" {
		p, err := parsePercent(args)
		if err != nil {
			s.reject("npv", err, err.Error())
			return
		}
		percent = p
	}

	rate, err := valuation.RateFromPercent(percent)
	if err != nil {
		s.reject("npv", err, err.Error())
		return
	}

	results, err := valuation.Evaluate(s.logger, s.registry, rate)
	if errors.Is(err, valuation.ErrEmptyRegistry) {
		s.reject("npv", err, "Please add at least one project before calculating NPVs.")
		return
	}
	if err != nil {
		s.reject("npv", err, err.Error())
		return
	}

	if s.outputFormat == constants.OutputFormatCSV {
		if err := output.CsvFormat(s.out, rate, results); err != nil {
			s.logger.Error("failed to write CSV results",
				zap.String("op", "shell.npv"),
				zap.Error(err),
			)
		}
		return
	}
	output.PrettyFormat(s.out, rate, results)
}

func (s *Shell) load(path string) {
	if path == "" {
		s.reject("load", registry.ErrMissingInput, "Please provide the path of a config file, e.g. load config.yaml")
		return
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		s.reject("load", err, err.Error())
		return
	}

	count, err := adapters.LoadProjects(s.registry, conf.Projects)
	if err != nil {
		s.reject("load", err, fmt.Sprintf("Nothing was loaded: %v", err))
		return
	}
	fmt.Fprintf(s.out, "Loaded %d projects from %s\n", count, path)
}

// reject reports a failed command. The registry is left untouched.
func (s *Shell) reject(op string, err error, message string) {
	s.logger.Debug("command rejected",
		zap.String("op", "shell."+op),
		zap.Error(err),
	)
	fmt.Fprintf(s.out, "Error: %s\n", message)
}

func parsePercent(text string) (float64, error) {
	percent, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(text), "%"), 64)
	if err != nil {
		return 0, fmt.Errorf("discount rate %q is not a number", text)
	}
	if err := validation.ValidateDiscountRatePercent(percent); err != nil {
		return 0, err
	}
	return percent, nil
}
