package cmd

import (
	"fmt"
	"strconv"

	"medialink/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunOrganize bool
	entryOrganize  int
	planOrganize   bool
)

// organizeCmd runs a single pass and exits.
var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Run one reconciliation pass and exit",
	Long: `Scans the source directories of every organize entry (or of one entry with
--entry) and creates the missing links.

Examples:
  # Show what would be linked without touching the filesystem
  medialink organize --dry-run --plan

  # Organize the second entry only
  medialink organize --entry 1`,
	RunE: runOrganize,
}

func init() {
	organizeCmd.Flags().BoolVar(&dryRunOrganize, "dry-run", false, "Plan without touching the filesystem")
	organizeCmd.Flags().IntVar(&entryOrganize, "entry", -1, "Organize only this entry index")
	organizeCmd.Flags().BoolVar(&planOrganize, "plan", false, "List planned links (with --dry-run)")
	RootCmd.AddCommand(organizeCmd)
}

func runOrganize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(options{recorders: !dryRunOrganize})
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	if !dryRunOrganize {
		unlock, err := a.lock()
		if err != nil {
			return err
		}
		defer unlock()
	}

	opts := reconcile.PassOptions{DryRun: dryRunOrganize}
	var (
		results []*reconcile.PassResult
		passErr error
	)
	if entryOrganize >= 0 {
		layer, ok := a.engine.Layer(entryOrganize)
		if !ok {
			return fmt.Errorf("unknown organize entry %d", entryOrganize)
		}
		res, err := layer.OrganizeDirectory(ctx, opts)
		if res != nil {
			results = append(results, res)
		}
		passErr = err
	} else {
		results, passErr = a.engine.OrganizeAll(ctx, opts)
	}

	printPassResults(results)
	if dryRunOrganize && planOrganize {
		printPlanned(results)
	}

	s := reconcile.Summarize(results)
	a.logger.Info("Organize completed",
		zap.Bool("dry_run", dryRunOrganize),
		zap.Int("created", s.Created),
		zap.Int("overridden", s.Overridden),
		zap.Int("unchanged", s.Unchanged),
		zap.Int("rejected", s.Rejected))
	return passErr
}

func printPassResults(results []*reconcile.PassResult) {
	headers := []string{"Entry", "Root", "Scanned", "Rejected", "Skipped", "Created", "Overridden", "Unchanged"}
	var rows [][]string
	for _, r := range results {
		if r.Status == reconcile.PassDisabled {
			rows = append(rows, []string{strconv.Itoa(r.Entry), "(disabled)"})
			continue
		}
		for _, d := range r.Directories {
			rows = append(rows, []string{
				strconv.Itoa(r.Entry),
				d.Root,
				strconv.Itoa(d.Scanned),
				strconv.Itoa(d.Rejected),
				strconv.Itoa(d.Skipped),
				strconv.Itoa(d.Created),
				strconv.Itoa(d.Overridden),
				strconv.Itoa(d.Unchanged),
			})
		}
	}
	fmt.Println(renderTable(headers, rows, 0, 2, 3, 4, 5, 6, 7))
}

func printPlanned(results []*reconcile.PassResult) {
	var rows [][]string
	for _, r := range results {
		for _, rec := range r.Planned {
			rows = append(rows, []string{strconv.Itoa(rec.Entry), rec.Destination, rec.Origin})
		}
	}
	if len(rows) == 0 {
		fmt.Println("Nothing to link.")
		return
	}
	fmt.Println(renderTable([]string{"Entry", "Destination", "Origin"}, rows, 0))
}
