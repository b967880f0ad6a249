package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nushell/nufmt/internal/config"
	"github.com/nushell/nufmt/internal/driver"
	"github.com/nushell/nufmt/internal/format"
	"github.com/nushell/nufmt/internal/logging"
	"github.com/nushell/nufmt/internal/version"
)

const defaultConfigFile = "nufmt.toml"

// errWouldReformat marks a dry run that found unformatted files. It maps to
// exit code 1; every other failure maps to exit code 2.
var errWouldReformat = errors.New("files would be reformatted")

var (
	flagDryRun  bool
	flagStdin   bool
	flagConfig  string
	flagVerbose bool
	flagJobs    int
)

var rootCmd = &cobra.Command{
	Use:   "nufmt [flags] [files...]",
	Short: "Format nushell source files",
	Long:  `nufmt rewrites nushell scripts into a single canonical style`,
	RunE:  runRoot,
}

func init() {
	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "check formatting without rewriting files")
	rootCmd.Flags().BoolVar(&flagStdin, "stdin", false, "read a program from stdin and print the result to stdout")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a TOML config file")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	rootCmd.Flags().IntVar(&flagJobs, "jobs", 0, "number of files formatted in parallel (0 = all CPUs)")
	rootCmd.Flags().BoolP("version", "v", false, "print the version and exit")

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(versionLine())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errWouldReformat) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "nufmt: %v\n", err)
		os.Exit(2)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	logger := logging.New(flagVerbose)
	logging.SetDefault(logger)

	if !isTerminal(os.Stdout) {
		color.NoColor = true
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if flagStdin {
		if len(args) > 0 {
			return errors.New("--stdin cannot be combined with file arguments")
		}
		return runStdin(cfg)
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	results, err := driver.Run(cmd.Context(), args, driver.Options{
		Config: cfg,
		DryRun: flagDryRun,
		Jobs:   flagJobs,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	var failed, changed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "nufmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if res.Changed {
			changed++
			if flagDryRun {
				fmt.Println(res.Path)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to format %d of %d files", failed, len(results))
	}
	if flagDryRun && changed > 0 {
		return fmt.Errorf("%d of %d %w", changed, len(results), errWouldReformat)
	}
	return nil
}

// runStdin formats a single program from stdin. In dry-run mode nothing is
// printed; the exit code alone reports whether the input is formatted.
func runStdin(cfg config.Config) error {
	if isTerminal(os.Stdin) {
		logging.Default().Warn("reading from a terminal; pipe a program into --stdin")
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}

	if flagDryRun {
		changed, _, err := format.Check("<stdin>", content, cfg)
		if err != nil {
			return err
		}
		if changed {
			return fmt.Errorf("stdin %w", errWouldReformat)
		}
		return nil
	}

	formatted, err := format.Source("<stdin>", content, cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(formatted)
	return err
}

// loadConfig reads the file named by --config, falling back to nufmt.toml in
// the working directory, then to built-in defaults.
func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return config.Load(defaultConfigFile)
	}
	return config.Default(), nil
}

func versionLine() string {
	line := "nufmt " + version.Version
	if version.GitCommit != "" {
		line += " (" + version.GitCommit + ")"
	}
	if version.BuildDate != "" {
		line += " built " + version.BuildDate
	}
	return line + "\n"
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
