package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"medialink/core/reconcile"
	"medialink/feature/integrity"
	"medialink/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the link tree and the optional backends",
	Long: `Plans every entry without touching the filesystem, then compares the
planned links with what is on disk. Also checks the target directories, the
journal schema and the published manifests when those backends are enabled.`,
	RunE: runIntegrity,
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing target directories and repair links")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(options{recorders: true, skipMigrate: true})
	if err != nil {
		return err
	}
	logg := a.logger
	defer logg.Sync()

	svc := integrity.NewService(a.engine, a.fs, a.journal, a.manifests, logg)

	// Targets
	logg.Info("Checking target directories...")
	missing, err := svc.CheckTargets()
	if err != nil {
		return fmt.Errorf("targets check failed: %w", err)
	}
	if len(missing) == 0 {
		logg.Info("Target directories are present.")
	} else {
		logg.Warn("Missing target directories detected", zap.Strings("missing", missing))
		if fixFlag {
			if err := svc.FixTargets(missing); err != nil {
				return err
			}
			logg.Info("Target directories created.")
		}
	}

	// Links, against a fresh plan of every entry
	logg.Info("Planning links...")
	results, err := a.engine.OrganizeAll(ctx, reconcile.PassOptions{DryRun: true})
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	planned := reconcile.NewRegistry()
	for _, r := range results {
		for _, rec := range r.Planned {
			planned.Upsert(rec)
		}
	}

	report, err := checks.CheckLinks(ctx, a.fs, planned.Snapshot(), 0)
	if err != nil {
		return fmt.Errorf("links check failed: %w", err)
	}
	printLinkReport(report)

	if fixFlag && len(report.Problems) > 0 {
		unlock, err := a.lock()
		if err != nil {
			return err
		}
		defer unlock()

		res := checks.RepairLinks(report, a.engine.Applier(), planned)
		logg.Info("Links repaired",
			zap.Int("relinked", len(res.Relinked)),
			zap.Int("failed", len(res.Failed)))
	} else if len(report.Problems) > 0 {
		logg.Info("Run with --fix to repair links.")
	}

	// Journal
	if cols, err := svc.CheckJournal(); err == nil {
		if len(cols) == 0 {
			logg.Info("Journal schema is intact.")
		} else {
			logg.Warn("Journal columns missing", zap.Strings("missing", cols))
		}
	} else if !errors.Is(err, integrity.ErrUnavailable) {
		logg.Error("Journal check failed", zap.Error(err))
	}

	// Manifests
	if m, err := svc.CheckManifests(ctx); err == nil {
		logg.Info("Manifests checked",
			zap.Int("expected", m.Expected),
			zap.Strings("missing", m.Missing),
			zap.Strings("stale", m.Stale))
	} else if !errors.Is(err, integrity.ErrUnavailable) {
		logg.Error("Manifest check failed", zap.Error(err))
	}

	return nil
}

func printLinkReport(report *checks.LinkReport) {
	fmt.Printf("\n=== Link Integrity ===\nTotal: %d  OK: %d\n", report.Total, report.Counts[checks.StatusOK])
	if len(report.Problems) == 0 {
		return
	}
	rows := make([][]string, 0, len(report.Problems))
	for _, p := range report.Problems {
		rows = append(rows, []string{strconv.Itoa(p.Entry), string(p.Status), p.Destination, p.Origin})
	}
	fmt.Println(renderTable([]string{"Entry", "Status", "Destination", "Origin"}, rows, 0))
}
