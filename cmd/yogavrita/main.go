package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"yogavrita/internal/bootstrap"
	catalogdto "yogavrita/internal/modules/catalog/dto"
	profiledto "yogavrita/internal/modules/profile/dto"
	sessiondto "yogavrita/internal/modules/session/dto"
	"yogavrita/internal/platform/config"
)

func main() {
	root, closeApp := newRootCmd()
	err := errors.Join(root.Execute(), closeApp())
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd returns the command tree and a func that releases the app
// loaded for whichever command ran.
func newRootCmd() (*cobra.Command, func() error) {
	var dataDir, configFile string
	var loaded *bootstrap.App

	root := &cobra.Command{
		Use:           "yogavrita",
		Short:         "Daily yoga practice timer and streak tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(dataDir, configFile)
			if err != nil {
				return err
			}
			loaded = app
			cmd.SetContext(bootstrap.WithApp(cmd.Context(), app))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "directory holding the database, config and hooks")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default <data-dir>/config.yaml)")

	root.AddCommand(newTUICmd())
	root.AddCommand(newPracticeCmd())
	root.AddCommand(newCatalogCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newStreakCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newHooksCmd())
	return root, func() error {
		if loaded == nil {
			return nil
		}
		return loaded.Close()
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".yogavrita"
	}
	return filepath.Join(home, ".yogavrita")
}

func loadApp(dataDir, configFile string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir, configFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.RunTUI(cmd.Context(), bootstrap.FromContext(cmd.Context()), bootstrap.TUIOptions{})
		},
	}
}

func newPracticeCmd() *cobra.Command {
	var plain bool
	practice := &cobra.Command{
		Use:   "practice [day]",
		Short: "Practice today's sequence, or the named day's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := "today"
			if len(args) == 1 {
				day = args[0]
			}
			app := bootstrap.FromContext(cmd.Context())
			if !plain {
				return bootstrap.RunTUI(cmd.Context(), app, bootstrap.TUIOptions{PracticeDay: day})
			}
			if day == "today" {
				day = ""
			}
			return runPlainPractice(cmd.Context(), app, day, cmd.OutOrStdout())
		},
	}
	practice.Flags().BoolVar(&plain, "plain", false, "print progress lines instead of the terminal UI")
	return practice
}

// runPlainPractice runs a session to the end, printing each asana as it
// starts. An interrupt exits the session without recording it.
func runPlainPractice(ctx context.Context, app *bootstrap.App, day string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan sessiondto.Event, 16)
	unsubscribe := app.SessionCLI.Subscribe(func(e sessiondto.Event) {
		if e.Kind == sessiondto.EventTick {
			return
		}
		select {
		case events <- e:
		case <-ctx.Done():
		}
	})
	defer unsubscribe()

	started, err := app.SessionCLI.Start(ctx, day)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s: %d asanas, %s\n", started.Day, started.Steps, clock(started.TotalDurationSeconds))

	for {
		select {
		case <-ctx.Done():
			app.SessionCLI.Exit()
			_, _ = fmt.Fprintln(out, "practice exited, nothing recorded")
			return nil
		case e := <-events:
			switch e.Kind {
			case sessiondto.EventStepStarted:
				s := e.Snapshot
				_, _ = fmt.Fprintf(out, "[%d/%d] %s  %s  %s\n", s.Index+1, s.Steps, s.Step.Name, clock(s.Step.DurationSeconds), s.Step.BreathingCue)
			case sessiondto.EventCompleted:
				_, _ = fmt.Fprintln(out, "practice complete")
			case sessiondto.EventRecorded:
				printRecorded(out, e.Recorded)
				return nil
			case sessiondto.EventRecordFailed:
				return fmt.Errorf("record practice: %w", e.Err)
			case sessiondto.EventExited:
				return nil
			}
		}
	}
}

func printRecorded(out io.Writer, r *sessiondto.RecordedOutput) {
	_, _ = fmt.Fprintf(out, "recorded %s (%s): streak %d, longest %d\n", r.Date, r.Day, r.CurrentStreak, r.LongestStreak)
	if !r.Counted {
		_, _ = fmt.Fprintln(out, "already practiced today; streak unchanged")
	}
	if len(r.Hooks) > 0 {
		_, _ = fmt.Fprintf(out, "hooks: %s\n", strings.Join(r.Hooks, ", "))
	}
	if r.HookError != "" {
		_, _ = fmt.Fprintf(out, "hook error: %s\n", r.HookError)
	}
}

func newCatalogCmd() *cobra.Command {
	catalog := &cobra.Command{Use: "catalog", Short: "Browse the weekly sequences"}

	catalog.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the sequence for each practice day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			list, err := app.CatalogCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-9s %2d asanas  %s\n", s.Day, s.Steps, clock(s.TotalDurationSeconds))
			}
			return nil
		},
	})

	catalog.AddCommand(&cobra.Command{
		Use:   "show <day>",
		Short: "Show the asanas of one day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.CatalogCLI.Show(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSequence(cmd.OutOrStdout(), out)
			return nil
		},
	})

	catalog.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show today's sequence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.CatalogCLI.Today(cmd.Context(), app.Clock.Now())
			if err != nil {
				return err
			}
			printSequence(cmd.OutOrStdout(), out)
			return nil
		},
	})

	catalog.AddCommand(&cobra.Command{
		Use:   "export [file]",
		Short: "Write the catalog as YAML, to stdout or a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.FromContext(cmd.Context())
			if len(args) == 0 {
				return app.CatalogCLI.Export(cmd.Context(), cmd.OutOrStdout())
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := app.CatalogCLI.Export(cmd.Context(), f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	})
	return catalog
}

func printSequence(out io.Writer, seq catalogdto.SequenceOutput) {
	_, _ = fmt.Fprintf(out, "%s  %s\n", seq.Sequence.Day, clock(seq.Sequence.TotalDurationSeconds))
	for i, step := range seq.Sequence.Steps {
		_, _ = fmt.Fprintf(out, "%2d. %-28s %6s  %s\n", i+1, step.Name, clock(step.DurationSeconds), step.BreathingCue)
	}
}

func newProfileCmd() *cobra.Command {
	profile := &cobra.Command{Use: "profile", Short: "Manage the practitioner profile"}

	profile.AddCommand(&cobra.Command{
		Use:   "create <name> <email>",
		Short: "Create the profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.ProfileCLI.Create(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), out)
			return nil
		},
	})

	profile.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the profile and streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.ProfileCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), out)
			return nil
		},
	})

	var name, email string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change the profile name or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" && email == "" {
				return errors.New("nothing to update: pass --name or --email")
			}
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.ProfileCLI.Update(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), out)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "new display name")
	update.Flags().StringVar(&email, "email", "", "new email address")
	profile.AddCommand(update)

	profile.AddCommand(&cobra.Command{
		Use:   "schedule [HH:MM]",
		Short: "Set the daily practice time; no argument clears it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at := ""
			if len(args) == 1 {
				at = args[0]
			}
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.ProfileCLI.Schedule(cmd.Context(), at)
			if err != nil {
				return err
			}
			if out.ScheduledTime == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "practice time cleared")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "practice time %s\n", out.ScheduledTime)
			return nil
		},
	})

	var yes bool
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete the profile and all practice history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes all history; rerun with --yes")
			}
			app := bootstrap.FromContext(cmd.Context())
			if err := app.ProfileCLI.Reset(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "profile deleted")
			return nil
		},
	}
	reset.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	profile.AddCommand(reset)
	return profile
}

func newStreakCmd() *cobra.Command {
	streak := &cobra.Command{Use: "streak", Short: "Inspect the practice streak"}

	streak.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current and longest streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.ProfileCLI.Show(cmd.Context())
			if err != nil {
				return err
			}
			printStreak(cmd.OutOrStdout(), out)
			return nil
		},
	})

	var asOf string
	recompute := &cobra.Command{
		Use:   "recompute",
		Short: "Rebuild the streak from the session history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			out, err := app.ProfileCLI.Recompute(cmd.Context(), asOf)
			if err != nil {
				return err
			}
			printStreak(cmd.OutOrStdout(), out)
			return nil
		},
	}
	recompute.Flags().StringVar(&asOf, "as-of", "", "date to count back from, YYYY-MM-DD (default today)")
	streak.AddCommand(recompute)
	return streak
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List completed sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			entries, err := app.ProfileCLI.History(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions yet")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-9s  %s  %s\n", e.Date, e.Day, clock(e.DurationSeconds), e.ID)
			}
			return nil
		},
	}
}

func newHooksCmd() *cobra.Command {
	hooks := &cobra.Command{Use: "hooks", Short: "Completion hook plugins"}
	hooks.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List hook manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			list, err := app.HookCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks configured")
				return nil
			}
			for _, h := range list {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s\n", h.Name, h.Version, h.Enabled, h.Binary)
			}
			return nil
		},
	})

	hooks.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate hook checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := bootstrap.FromContext(cmd.Context())
			results, err := app.HookCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hooks configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})
	return hooks
}

func printProfile(out io.Writer, p profiledto.ProfileOutput) {
	_, _ = fmt.Fprintf(out, "%s <%s>\n", p.Name, p.Email)
	_, _ = fmt.Fprintf(out, "member since %s\n", p.CreatedAt.Format("2006-01-02"))
	if p.ScheduledTime != "" {
		_, _ = fmt.Fprintf(out, "practice time %s\n", p.ScheduledTime)
	}
	_, _ = fmt.Fprintf(out, "sessions %d, total %s\n", p.Sessions, clock(p.TotalPracticeSeconds))
	printStreak(out, p)
}

func printStreak(out io.Writer, p profiledto.ProfileOutput) {
	last := p.LastPracticeDate
	if last == "" {
		last = "never"
	}
	_, _ = fmt.Fprintf(out, "streak %d, longest %d, last practice %s\n", p.CurrentStreak, p.LongestStreak, last)
	if p.MissedPracticeDays > 0 {
		_, _ = fmt.Fprintf(out, "missed %d practice day(s)\n", p.MissedPracticeDays)
	}
}

// clock formats seconds as M:SS.
func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
