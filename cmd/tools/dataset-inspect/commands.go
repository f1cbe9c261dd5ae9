// cmd/tools/dataset-inspect/commands.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"llc-directory/internal/aggregate"
	"llc-directory/internal/common/config"
	"llc-directory/internal/common/logger"
	"llc-directory/internal/dataset"
	"llc-directory/internal/models"
	"llc-directory/internal/query"
)

// options are the flags shared by every subcommand.
type options struct {
	paths   []string
	asJSON  bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "dataset-inspect",
		Short: "Inspect the LLC provider dataset",
		Long: `Loads the provider CSV the same way the directory server does and
reports what it found. Candidate paths are tried in order; the first one
that exists and parses wins.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringSliceVarP(&opts.paths, "path", "p", nil,
		"candidate dataset path (repeatable, default: "+strings.Join(config.DefaultCandidatePaths, ", ")+")")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every load attempt to stderr")

	root.AddCommand(
		newCheckCmd(opts),
		newStatesCmd(opts),
		newFilterCmd(opts),
		newSummaryCmd(opts),
	)
	return root
}

// load reads the dataset from the configured candidate paths.
func (o *options) load(ctx context.Context) (models.Table, dataset.Report) {
	paths := o.paths
	if len(paths) == 0 {
		paths = config.DefaultCandidatePaths
	}
	log := logger.NewNoOpLogger()
	if o.verbose {
		log = logger.NewStructured("debug", "console", "stderr")
	}
	return dataset.NewFileSource(paths, log).LoadWithReport(ctx)
}

func (o *options) printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// ==========================
// check
// ==========================

type checkResult struct {
	Report  dataset.Report `json:"report"`
	Rows    int            `json:"rows"`
	Columns []string       `json:"columns"`
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Show which candidate path was loaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, report := opts.load(cmd.Context())
			res := checkResult{Report: report, Rows: table.Len(), Columns: table.Columns()}
			if opts.asJSON {
				return opts.printJSON(cmd, res)
			}

			for _, a := range report.Attempts {
				line := fmt.Sprintf("  %-12s %s", a.Outcome, a.Path)
				if a.Error != "" {
					line += " (" + a.Error + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			if report.LoadedFrom == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No dataset found; the server would serve empty results.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows from %s\n", res.Rows, report.LoadedFrom)
			fmt.Fprintf(cmd.OutOrStdout(), "Columns: %s\n", strings.Join(res.Columns, ", "))
			return nil
		},
	}
}

// ==========================
// states
// ==========================

func newStatesCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "states",
		Short: "List states with their row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _ := opts.load(cmd.Context())
			counts := aggregate.CountByState(table)
			if limit > 0 && len(counts) > limit {
				counts = counts[:limit]
			}
			if opts.asJSON {
				return opts.printJSON(cmd, counts)
			}

			if len(counts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No states found.")
				return nil
			}
			for _, c := range counts {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %d\n", c.Value, c.Count)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n states (0 = all)")
	return cmd
}

// ==========================
// filter
// ==========================

type filterResult struct {
	Filter       query.Filter            `json:"filter"`
	TotalMatches int                     `json:"totalMatches"`
	Records      []models.ProviderRecord `json:"records"`
}

func newFilterCmd(opts *options) *cobra.Command {
	var (
		f     query.Filter
		limit int
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter rows by provider name and state",
		Long: `Filters rows whose name contains --name and whose state contains
--state, both case-insensitive, then caps the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, _ := opts.load(cmd.Context())
			matches := query.Apply(table, f)
			res := filterResult{
				Filter:       f,
				TotalMatches: matches.Len(),
				Records:      query.Cap(matches.Records(), limit),
			}
			if opts.asJSON {
				return opts.printJSON(cmd, res)
			}

			if res.TotalMatches == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching rows.")
				return nil
			}
			for _, rec := range res.Records {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-32s %-16s %s\n", rec.Name(), rec.State(), rec.City())
			}
			if res.TotalMatches > len(res.Records) {
				fmt.Fprintf(cmd.OutOrStdout(), "  ... %d more\n", res.TotalMatches-len(res.Records))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.ProviderName, "name", "", "provider name substring")
	cmd.Flags().StringVar(&f.State, "state", "", "state substring")
	cmd.Flags().IntVarP(&limit, "limit", "n", query.DefaultCap, "maximum rows to print")
	return cmd
}

// ==========================
// summary
// ==========================

type summaryResult struct {
	Summary   models.Summary      `json:"summary"`
	TopField  string              `json:"topField"`
	TopValues []models.ValueCount `json:"topValues"`
}

func newSummaryCmd(opts *options) *cobra.Command {
	var (
		field string
		n     int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count rows, states and cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if n <= 0 {
				return fmt.Errorf("--top must be positive, got %d", n)
			}
			table, _ := opts.load(cmd.Context())
			res := summaryResult{
				Summary:   aggregate.Summarize(table),
				TopField:  field,
				TopValues: aggregate.TopN(table, field, n),
			}
			if opts.asJSON {
				return opts.printJSON(cmd, res)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Services: %d\n", res.Summary.Count)
			fmt.Fprintf(cmd.OutOrStdout(), "States:   %d\n", res.Summary.DistinctStateCount)
			fmt.Fprintf(cmd.OutOrStdout(), "Cities:   %d\n", res.Summary.DistinctCityCount)
			if len(res.TopValues) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Top %s:\n", field)
				for _, v := range res.TopValues {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-24s %d\n", v.Value, v.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&field, "field", models.FieldCity, "column for the frequency table")
	cmd.Flags().IntVar(&n, "top", 5, "number of most frequent values")
	return cmd
}
