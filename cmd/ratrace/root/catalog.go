package root

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ratrace/internal/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate the catalog and summarize its contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := openCatalog()
			if err != nil {
				return err
			}
			return printCatalog(cmd.OutOrStdout(), cat)
		},
	}
	return cmd
}

func printCatalog(out io.Writer, cat *catalog.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROFESSION\tSALARY\tEXPENSES\tCASH FLOW\tSTARTING CASH")
	for _, p := range cat.Professions {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", p.ID, p.Salary, p.FixedExpenses(), p.Salary-p.FixedExpenses(), p.StartingCash)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	byTrack := map[catalog.Track]int{}
	for _, c := range cat.Opportunities {
		byTrack[c.Track]++
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "opportunities: %d rat race, %d fast track\n", byTrack[catalog.TrackRatRace], byTrack[catalog.TrackFastTrack])
	fmt.Fprintf(out, "doodads: %d\n", len(cat.Doodads))
	fmt.Fprintf(out, "market events: %d\n", len(cat.Events))
	fmt.Fprintf(out, "board: %d rat race spaces, %d fast track spaces\n",
		len(cat.Rules.Board(catalog.TrackRatRace)), len(cat.Rules.Board(catalog.TrackFastTrack)))
	fmt.Fprintf(out, "loans: %s%% in steps of %d up to %d\n", cat.Rules.LoanRate.Shift(2).String(), cat.Rules.LoanIncrement, cat.Rules.MaxLoan)
	fmt.Fprintf(out, "fast track target: %d\n", cat.Rules.FastTrackTarget)
	return nil
}
