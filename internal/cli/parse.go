package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keyxmakerx/chronicle-dates/internal/dateparse"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [text...]",
		Short: "Parse a date expression",
		Long: `Parse a date expression and print it as JSON.

The arguments are joined into one expression. Without arguments every
non-blank line of standard input is parsed.`,
		Example: `  calendate parse -c shire.yaml "3rd day of Harvest Moon, 3019"
  calendate parse -c shire.yaml --describe "early autumn 3019"
  cat dates.txt | calendate parse -c shire.yaml`,
		RunE: runParse,
	}
	cmd.Flags().Bool("describe", false, "print the human-readable description instead of JSON")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	p, _, err := loadCalendar(cmd)
	if err != nil {
		return err
	}
	describe, _ := cmd.Flags().GetBool("describe")
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		return printParse(cmd, p, strings.Join(args, " "), describe)
	}

	failed := 0
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := printParse(cmd, p, line, describe); err != nil {
			fmt.Fprintf(out, "ERROR %v\n", err)
			failed++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d date(s) could not be parsed", failed)
	}
	return nil
}

func printParse(cmd *cobra.Command, p *dateparse.Parser, text string, describe bool) error {
	d, err := p.Parse(text)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if describe {
		fmt.Fprintln(out, p.Describe(d))
		return nil
	}
	b, err := json.Marshal(p.ToJSON(d))
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}
