package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a calendar file and the event dates it contains",
		Long: `Check that the calendar definition is valid and, for calendar exports,
that every event date parses against it.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	p, result, err := loadCalendar(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "OK calendar %q (%s): %d months, %d days per year\n",
		result.CalendarName, result.Format, p.Calendar().MonthCount(), p.Calendar().YearLength())

	failed := 0
	for _, evt := range result.Events {
		d, err := p.Parse(evt.Date)
		if err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", evt.Name, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "OK %s: %s\n", evt.Name, p.Describe(d))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d event dates are invalid", failed, len(result.Events))
	}
	return nil
}
