// Package render is a subcommand of the root command. It writes dashboard reports from a results snapshot.
package render

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"jmdash/internal/app"
	"jmdash/internal/dashboard"
	"jmdash/internal/report"
	"jmdash/internal/workflow"
)

const cmdName = "render"

var examples = []string{
	fmt.Sprintf("  All formats from the bundled sample:  $ %s %s", app.Name, cmdName),
	fmt.Sprintf("  HTML and JSON from a snapshot:        $ %s %s --input results.json --format html,json", app.Name, cmdName),
	fmt.Sprintf("  Controllers only:                     $ %s %s --input results.json --controllers-only", app.Name, cmdName),
	fmt.Sprintf("  Settings file:                        $ %s %s --input results.json --settings dashboard.yaml", app.Name, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Write dashboard reports from a results snapshot",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	PreRunE:       validateFlags,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

// flag vars
var (
	flagFormat    []string
	dashboardArgs workflow.DashboardFlags
)

func init() {
	dashboardArgs.Add(Cmd)
	Cmd.Flags().StringSliceVar(&flagFormat, app.FlagFormatName, []string{report.FormatAll}, "")

	Cmd.SetUsageFunc(usageFunc)
}

func usageFunc(cmd *cobra.Command) error {
	cmd.Printf("Usage: %s [flags]\n\n", cmd.CommandPath())
	cmd.Printf("Examples:\n%s\n\n", cmd.Example)
	cmd.Println("Flags:")
	for _, group := range getFlagGroups() {
		cmd.Printf("  %s:\n", group.GroupName)
		for _, flag := range group.Flags {
			flagDefault := ""
			if cmd.Flags().Lookup(flag.Name).DefValue != "" {
				flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(flag.Name).DefValue)
			}
			cmd.Printf("    --%-26s %s%s\n", flag.Name, flag.Help, flagDefault)
		}
	}
	cmd.Println("\nGlobal Flags:")
	cmd.Parent().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
		flagDefault := ""
		if cmd.Parent().PersistentFlags().Lookup(pf.Name).DefValue != "" {
			flagDefault = fmt.Sprintf(" (default: %s)", cmd.Flags().Lookup(pf.Name).DefValue)
		}
		cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
	})
	return nil
}

func getFlagGroups() []app.FlagGroup {
	groups := dashboardArgs.FlagGroups()
	groups = append(groups, app.FlagGroup{
		GroupName: "Output Options",
		Flags: []app.Flag{
			{
				Name: app.FlagFormatName,
				Help: fmt.Sprintf("choose output format(s) from: %s", strings.Join(append([]string{report.FormatAll}, report.FormatOptions...), ", ")),
			},
		},
	})
	return groups
}

func validateFlags(cmd *cobra.Command, args []string) error {
	// validate format options
	for _, format := range flagFormat {
		formatOptions := append([]string{report.FormatAll}, report.FormatOptions...)
		if !slices.Contains(formatOptions, format) {
			err := fmt.Errorf("format options are: %s", strings.Join(formatOptions, ", "))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return err
		}
	}
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	cfg, s, err := dashboardArgs.Config(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cmd.SilenceUsage = true
		return err
	}
	formats := flagFormat
	if !cmd.Flags().Changed(app.FlagFormatName) && len(s.Formats) > 0 {
		formats = s.Formats
	}
	rc := workflow.ReportingCommand{
		Cmd:     cmd,
		Input:   dashboardArgs.Input,
		Formats: formats,
		Config:  cfg,
	}
	if term.IsTerminal(int(os.Stdout.Fd())) { // #nosec G115
		rc.PrintReport = func(reportBytes []byte) {
			fmt.Print(string(reportBytes))
		}
	}
	result, err := rc.Run()
	if err != nil {
		return err
	}
	printSummary(os.Stdout, result)
	return nil
}

// printSummary prints the report files followed by the PASS/FAIL split of the samples
func printSummary(w io.Writer, result workflow.Result) {
	if len(result.ReportPaths) > 0 {
		fmt.Fprintln(w, "Report files:")
		for _, reportPath := range result.ReportPaths {
			fmt.Fprintf(w, "  %s\n", reportPath)
		}
	}
	p := message.NewPrinter(language.English)
	samples, failures := result.Snapshot.Totals()
	chart := dashboard.RequestsSummaryChart(result.Snapshot.RequestsSummary)
	parts := []string{}
	for _, slice := range chart.Slices {
		c := color.New(color.FgGreen)
		if slice.Label == "FAIL" {
			c = color.New(color.FgRed)
		}
		parts = append(parts, c.Sprintf("%s %s%%", slice.Label, report.FormatPercent(slice.Percent)))
	}
	fmt.Fprintln(w, p.Sprintf("Samples: %d, failed: %d (%s)", samples, failures, strings.Join(parts, ", ")))
}
