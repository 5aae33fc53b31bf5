package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"rbak/internal/app"
	"rbak/internal/backup"
	"rbak/internal/config"
	"rbak/internal/durations"

	"github.com/spf13/cobra"
)

// Exit code contract, kept compatible with the shell script this tool
// replaced: 1 help requested, 2 unrecognized flag, 3 no task selected,
// 4 one or more sync jobs failed, 0 otherwise (skips included).
var errJobsFailed = errors.New("one or more sync jobs failed")

// flagError marks pflag parse failures (unknown flags) so they map to
// their own exit code.
type flagError struct {
	err error
}

func (e *flagError) Error() string { return e.err.Error() }
func (e *flagError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var fe *flagError
	switch {
	case errors.As(err, &fe):
		return 2
	case errors.Is(err, backup.ErrNoTaskSelected):
		return 3
	case errors.Is(err, errJobsFailed):
		return 4
	default:
		return 1
	}
}

// run executes the command tree and returns the process exit code.
// Cobra handles a set help flag during parsing: it prints help itself and
// Execute returns nil, so the flag's Changed state is the only trace of
// the request and must be checked after the fact.
func run(args []string) int {
	rootCmd.SetArgs(args)
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	if cmd != nil && cmd.Flags().Changed("help") {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// newApp reads the config and creates an App. The caller must defer app.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "rbak",
	Short: "Personal rsync backup orchestrator",
}

// backup command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Run the selected backup tasks",
	Long: `Run the selected backup tasks against every mounted destination root.

Tasks run in a fixed order; a task whose source directory or destination
is missing is skipped with a warning and the remaining tasks still run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()

		sel := backup.NewSelection()
		sel.DryRun, _ = flags.GetBool("dry-run")
		sel.All, _ = flags.GetBool("all")
		for _, t := range backup.Tasks {
			if on, _ := flags.GetBool(t.Name); on {
				sel.Select(t.Name)
			}
		}

		// Fail fast, before any filesystem access.
		if err := sel.Validate(); err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		summary, err := a.Backup(cmd.Context(), sel)
		if err != nil {
			return err
		}

		printSummary(cmd, summary)
		if summary.AnyFailed() {
			return errJobsFailed
		}
		return nil
	},
}

func printSummary(cmd *cobra.Command, summary *backup.RunSummary) {
	out := cmd.OutOrStdout()

	for _, res := range summary.Results {
		switch res.Status {
		case backup.StatusSkipped:
			target := res.Task
			if res.Source != "" {
				target = res.Source
			}
			fmt.Fprintf(out, "skipped  %s (%s)\n", target, res.Detail)
		case backup.StatusFailed:
			fmt.Fprintf(out, "FAILED   %s -> %s (exit %d)\n", res.Source, res.Destination, res.ExitCode)
		}
	}

	mode := ""
	if summary.DryRun {
		mode = " [dry-run]"
	}
	fmt.Fprintf(out, "Run #%d%s: %d synced, %d skipped, %d failed\n",
		summary.RunID, mode, summary.Succeeded, summary.Skipped, summary.Failed)
}

// sumtime command
var sumtimeCmd = &cobra.Command{
	Use:   "sumtime",
	Short: "Sum hh:mm:ss durations from standard input",
	Long: `Read whitespace-separated hh:mm:ss or hh:mm durations from standard
input and print their sum as hh:mm:ss. A missing seconds field counts as
zero, so "10:00" is ten hours. Empty input sums to 00:00:00.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		total, err := durations.Sum(cmd.InOrStdin())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), durations.Format(total))
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostname, err := os.Hostname()
		if err != nil {
			return fmt.Errorf("determining hostname: %w", err)
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("determining home directory: %w", err)
		}

		cfg := config.NewConfig(hostname, homeDir, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Work hostname: %s (edit if this is not the work computer)\n", hostname)
		fmt.Printf("Source root:   %s\n", homeDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Work hostname: %s\n", cfg.WorkHostname)
		fmt.Printf("Source root:   %s\n", cfg.SourceRoot)
		fmt.Printf("Log dir:       %s\n", cfg.LogDir)
		fmt.Printf("Destinations:\n")
		for _, d := range cfg.Destinations {
			fmt.Printf("  %s\n", d)
		}
		fmt.Printf("Tasks:\n")
		for _, t := range backup.Tasks {
			tc, ok := cfg.Tasks[t.Name]
			if !ok {
				fmt.Printf("  -%s  %-18s (not configured)\n", t.Flag, t.Name)
				continue
			}
			root := tc.SourceRoot
			if root == "" {
				root = cfg.SourceRoot
			}
			fmt.Printf("  -%s  %-18s %s: %v\n", t.Flag, t.Name, root, tc.Subdirs)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history [RUN-ID]",
	Short: "View backup run history",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 1 {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}
			return printRunJobs(a, runID)
		}

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No backup runs recorded.")
			return nil
		}

		for _, run := range runs {
			duration := ""
			if run.FinishedAt.Valid {
				d := run.FinishedAt.Time.Sub(run.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			dry := ""
			if run.DryRun {
				dry = " (dry-run)"
			}
			fmt.Printf("#%d  %s  %-8s  %d synced / %d skipped / %d failed  %s  [%s]%s\n",
				run.ID,
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Status,
				run.Succeeded, run.Skipped, run.Failed,
				duration,
				run.Flags,
				dry,
			)
		}
		return nil
	},
}

func printRunJobs(a *app.App, runID int64) error {
	jobs, err := a.RunJobs(runID)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Printf("No jobs recorded for run #%d.\n", runID)
		return nil
	}
	for _, j := range jobs {
		switch j.Status {
		case "skipped":
			fmt.Printf("%-18s skipped  %s\n", j.Task, j.Detail)
		case "failed":
			fmt.Printf("%-18s failed   %s -> %s (exit %d)\n", j.Task, j.Source, j.Destination, j.ExitCode)
		default:
			fmt.Printf("%-18s %s  %s -> %s\n", j.Task, j.Status, j.Source, j.Destination)
		}
	}
	return nil
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &flagError{err: err}
	})

	// backup flags; long names match the task names, shorthands match the
	// original script's single-letter options.
	backupCmd.Flags().BoolP("dry-run", "n", false, "report planned transfers without applying them")
	backupCmd.Flags().BoolP("all", "a", false, "run every task except the Windows profile trees")
	taskUsage := map[string]string{
		"config":            "back up the configuration directory",
		"dedup-backup":      "back up the deduplicated backup tree",
		"videos":            "back up videos",
		"source-code":       "back up source code (work computer only)",
		"photos":            "back up photos",
		"windows-profile-a": "back up the first Windows user profile",
		"windows-profile-b": "back up the second Windows user profile",
	}
	for _, t := range backup.Tasks {
		backupCmd.Flags().BoolP(t.Name, t.Flag, false, taskUsage[t.Name])
	}
	backupCmd.Flags().BoolP("help", "h", false, "show usage")

	sumtimeCmd.Flags().BoolP("help", "h", false, "show usage")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	historyCmd.Flags().IntP("limit", "l", 50, "Maximum number of runs to show")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(sumtimeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}
