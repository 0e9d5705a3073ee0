package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/crease/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool
	Filter string // glob over scenario file names, without extension
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Digest string   `json:"digest,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult is the outcome of a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenario-file-or-dir>...",
		Short: "Run scripted match scenarios",
		Long: `Run YAML match scenarios through the scoring engine.

Each scenario is scored in a fresh in-memory database, checked against its
expect block and assertions, and replayed to verify its checkpoint. When
golden/<name>.golden exists next to the scenario, the final scorecard must
match it.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  crease test ./testdata/scenarios
  crease test ./testdata/scenarios --filter "chase_*"
  crease test ./testdata/scenarios --update
  crease test ./testdata/scenarios/chase_won.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	files, err := collectScenarios(paths, opts.Filter)
	if err != nil {
		return err
	}

	text := opts.Format != "json"
	w := cmd.OutOrStdout()

	result := TestResult{Scenarios: []ScenarioResult{}, Total: len(files)}
	if len(files) == 0 && text {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, file := range files {
		var log io.Writer = io.Discard
		if text {
			log = w
		}
		r := runScenario(file, opts, log)
		if r.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, r)
	}

	var failure *ExitError
	if result.Failed > 0 {
		failure = NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	if !text {
		f := newFormatter(opts.RootOptions, cmd)
		f.Indent = true
		var cliErr *CLIError
		if failure != nil {
			cliErr = &CLIError{Code: "SCENARIO_FAILED", Message: failure.Message}
		}
		if err := f.Result(result, cliErr); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
		if failure == nil {
			fmt.Fprintln(w, "✓ All scenarios passed")
		}
	}

	if failure != nil {
		return failure
	}
	return nil
}

// collectScenarios expands paths into scenario files. Directories are
// searched recursively and filtered; explicit files are always kept.
func collectScenarios(paths []string, filter string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("path not found: %s", path))
		}
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to stat path", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := findScenarioFiles(path, filter)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to find scenarios", err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// findScenarioFiles returns the .yaml and .yml files under dir whose base
// name matches filter.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			ok, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario scores one scenario file and checks it against its golden
// scorecard. Progress lines go to w.
func runScenario(file string, opts *TestOptions, w io.Writer) ScenarioResult {
	res := check(file, opts)
	name := res.Name

	if res.Pass {
		if opts.Update {
			fmt.Fprintf(w, "✓ %s (golden updated)\n", name)
		} else {
			fmt.Fprintf(w, "✓ %s\n", name)
		}
		return res
	}

	fmt.Fprintf(w, "✗ %s\n", name)
	for _, e := range res.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return res
}

func check(file string, opts *TestOptions) ScenarioResult {
	name := filepath.Base(file)
	failed := func(errs ...string) ScenarioResult {
		return ScenarioResult{Name: name, Errors: errs}
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return failed(fmt.Sprintf("failed to load scenario: %v", err))
	}
	name = scenario.Name

	run, err := harness.Run(scenario)
	if err != nil {
		return failed(fmt.Sprintf("execution failed: %v", err))
	}
	if !run.Pass {
		return failed(run.Errors...)
	}

	goldenPath := goldenFilePath(file)
	if opts.Update {
		if err := writeGolden(goldenPath, run.Scorecard); err != nil {
			return failed(fmt.Sprintf("failed to update golden file: %v", err))
		}
	} else if msg := compareGolden(goldenPath, run.Scorecard, opts.Verbose); msg != "" {
		return failed(msg)
	}

	return ScenarioResult{Name: name, Pass: true, Digest: run.Digest}
}

// compareGolden returns a failure message, or "" when the golden file is
// absent or matches the scorecard.
func compareGolden(path, scorecard string, verbose bool) string {
	golden, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ""
	case err != nil:
		return fmt.Sprintf("golden comparison failed: %v", err)
	case string(golden) == scorecard:
		return ""
	case verbose:
		return "Golden file mismatch (run with --update to regenerate)\n\n" + scorecard
	default:
		return "Golden file mismatch (run with --update to regenerate)"
	}
}

// goldenFilePath maps dir/name.yaml to dir/golden/name.golden.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeGolden(path, scorecard string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create golden directory: %w", err)
	}
	return os.WriteFile(path, []byte(scorecard), 0644)
}
