package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the month names and abbreviations the parser accepts",
		Args:  cobra.NoArgs,
		RunE:  runFormats,
	}
}

func runFormats(cmd *cobra.Command, args []string) error {
	p, _, err := loadCalendar(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tMONTH\tABBREV\tDAYS")
	for _, f := range p.Formats().Formats() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", f.Index, f.Full, f.Abbrev, p.Calendar().DaysInMonth(f.Index))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if weekdays := p.Calendar().WeekdayNames(); len(weekdays) > 0 {
		fmt.Fprintf(out, "\nWeekdays: %s\n", strings.Join(weekdays, ", "))
	}
	fmt.Fprintf(out, "Year length: %d days, current year %d\n",
		p.Calendar().YearLength(), p.Calendar().CurrentYear())
	return nil
}
