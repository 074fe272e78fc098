package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"medialink/core/reconcile"

	"github.com/spf13/cobra"
)

var byDestination bool

// lookupCmd resolves a path against a fresh plan.
var lookupCmd = &cobra.Command{
	Use:   "lookup <path>",
	Short: "Show where a source file is linked, or what a link points to",
	Long: `Plans every entry without touching the filesystem and prints the links
whose origin is the given path. With --destination the path is taken as a
link path instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&byDestination, "destination", false, "Treat the path as a link destination")
	RootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(options{})
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	results, err := a.engine.OrganizeAll(cmd.Context(), reconcile.PassOptions{DryRun: true})
	if err != nil {
		return err
	}
	planned := reconcile.NewRegistry()
	for _, r := range results {
		for _, rec := range r.Planned {
			planned.Upsert(rec)
		}
	}

	var records []reconcile.LinkRecord
	if byDestination {
		if rec, ok := planned.Find(path); ok {
			records = append(records, rec)
		}
	} else {
		records = planned.FindAllByOrigin(path)
	}

	if len(records) == 0 {
		fmt.Println("No link found.")
		return nil
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		q, _ := rec.Metadata.Quality()
		quality := ""
		if q != nil {
			quality = fmt.Sprint(q)
		}
		rows = append(rows, []string{strconv.Itoa(rec.Entry), rec.Destination, rec.Origin, quality})
	}
	fmt.Println(renderTable([]string{"Entry", "Destination", "Origin", "Quality"}, rows, 0))
	return nil
}
