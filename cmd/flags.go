package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/gnames/gnaoi/pkg/config"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// flagOptions converts persistent flags that were set by the user to
// configuration options.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()

	if flags.Changed("jobs") {
		if i, err := flags.GetInt("jobs"); err == nil {
			res = append(res, config.OptJobsNumber(i))
		}
	}
	if flags.Changed("catalog") {
		if s, err := flags.GetString("catalog"); err == nil {
			res = append(res, config.OptCatalogKind(s))
		}
	}
	if flags.Changed("log-level") {
		if s, err := flags.GetString("log-level"); err == nil {
			res = append(res, config.OptLogLevel(s))
		}
	}
	return res
}

// prettyFlag adds --pretty flag for JSON output.
func prettyFlag(cmd *cobra.Command, pretty *bool) {
	cmd.Flags().BoolVarP(pretty, "pretty", "p", false,
		"pretty-print JSON output")
}

// printJSON writes v to the command output as JSON.
func printJSON(cmd *cobra.Command, v any, pretty bool) error {
	enc := gnfmt.GNjson{Pretty: pretty}
	bs, err := enc.Encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bs))
	return err
}

// parseDate accepts YYYY-MM-DD or RFC 3339 timestamps. End dates given
// as YYYY-MM-DD cover the whole day.
func parseDate(s string, end bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q, use YYYY-MM-DD", s)
	}
	if end {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
