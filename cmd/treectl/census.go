package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/familytree/internal/census"
	"github.com/JonMunkholm/familytree/internal/core"
)

func newCensusesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "censuses [place]",
		Short: "List the known censuses, optionally for one country",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := census.All()
			if len(args) == 1 {
				list = census.ByPlace(args[0])
				if len(list) == 0 {
					return fmt.Errorf("no censuses for %q (known: %v)", args[0], census.Places())
				}
			}
			writeCensuses(a.out, list)
			return nil
		},
	}
}

func writeCensuses(w io.Writer, list []*census.Census) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Place", "Title", "Date", "Columns"})
	table.SetAutoWrapText(false)
	for _, c := range list {
		table.Append([]string{c.Key(), c.Place(), c.Title(), c.Date().Format("2006-01-02"), fmt.Sprint(len(c.Columns()))})
	}
	table.Render()
}

func newCensusCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "census <tree> <census> <xref>",
		Short:   "Fill in a census form for the household headed by xref",
		Example: "  treectl census demo us-1880 I1",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := census.Get(args[1]); !ok {
				return fmt.Errorf("census %q: %w", args[1], core.ErrCensusNotFound)
			}

			ctx := cmd.Context()
			svc, err := a.connect(ctx)
			if err != nil {
				return err
			}
			tree, err := svc.Tree(ctx, args[0])
			if err != nil {
				return err
			}
			report, err := svc.CensusReport(ctx, tree, args[1], args[2])
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			writeCensusReport(a.out, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write the report as JSON")
	return cmd
}

func writeCensusReport(w io.Writer, report *core.CensusReport) {
	fmt.Fprintf(w, "%s, %s, %s\n", report.Title, report.Place, report.Date.Format("2 January 2006"))

	headers := make([]string, len(report.Headings))
	for i, h := range report.Headings {
		headers[i] = h.Abbreviation
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	for _, row := range report.Rows {
		table.Append(row.Cells)
	}
	table.Render()
}
