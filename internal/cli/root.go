// Package cli implements the calendate command: parse, describe and check
// date expressions against a calendar definition file without running the
// service.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
	"github.com/keyxmakerx/chronicle-dates/internal/plugins/calendar"
)

var version = "dev"

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	version = v
}

// NewRootCmd builds the calendate command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "calendate",
		Short: "Parse natural-language dates against a custom calendar",
		Long: `calendate parses date expressions such as "3rd day of Harvest Moon, 3019"
against a calendar definition file.

The calendar file may be a bare definition (month_names, month_days,
year_length, weekday_names, current_year) or a calendar export, as JSON or
YAML.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("calendar", "c", "", "calendar definition file (JSON or YAML)")
	_ = root.MarkPersistentFlagRequired("calendar")

	root.AddCommand(newParseCmd(), newFormatsCmd(), newValidateCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadCalendar reads the --calendar file and builds its parser. Events in
// the file are returned too, for validate.
func loadCalendar(cmd *cobra.Command) (*dateparse.Parser, *calendar.ImportResult, error) {
	path, _ := cmd.Flags().GetString("calendar")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading calendar: %w", err)
	}
	result, err := calendar.DetectAndParse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	p, err := dateparse.New(result.Definition)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, result, nil
}
