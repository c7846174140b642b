package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tdic-outreach/mealroute/internal/roster"
)

var dedupeInput string

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Report duplicate recipients in a roster",
	Long:  "Lists every name and every address that appears on more than one roster row so signup mistakes can be fixed before distribution.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if dedupeInput == "" {
			return eris.New("dedupe: --input is required")
		}

		deliveries, err := roster.Read(dedupeInput, cfg.Columns)
		if err != nil {
			return err
		}

		report := roster.FindDuplicates(deliveries)
		formatDuplicateReport(os.Stdout, report)
		return nil
	},
}

func init() {
	dedupeCmd.Flags().StringVarP(&dedupeInput, "input", "i", "", "roster file (csv or xlsx)")
	rootCmd.AddCommand(dedupeCmd)
}

func formatDuplicateReport(out io.Writer, report roster.DuplicateReport) {
	if len(report.Names) == 0 && len(report.Addresses) == 0 {
		fmt.Fprintln(out, "No duplicates found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if len(report.Names) > 0 {
		fmt.Fprintf(w, "Duplicate names (%d):\n", len(report.Names))
		for _, n := range report.Names {
			ids := make([]string, len(n.Entries))
			for i, e := range n.Entries {
				ids[i] = e.ID
			}
			fmt.Fprintf(w, "  %s, %s\trows %v\n", n.LastName, n.FirstName, ids)
		}
	}
	if len(report.Addresses) > 0 {
		fmt.Fprintf(w, "Duplicate addresses (%d):\n", len(report.Addresses))
		for _, a := range report.Addresses {
			ids := make([]string, len(a.Entries))
			for i, e := range a.Entries {
				ids[i] = e.ID
			}
			fmt.Fprintf(w, "  %s\trows %v\n", a.Describe(), ids)
		}
	}
	fmt.Fprintf(w, "Unique names:\t%d\n", report.UniqueNames)
	fmt.Fprintf(w, "Unique addresses:\t%d\n", report.UniqueAddresses)
	_ = w.Flush()
}
