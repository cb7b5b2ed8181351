package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"ecommerce_automation/application/scenario"
	"ecommerce_automation/domain/entities"
)

func getColor(noColor bool, attributes ...color.Attribute) *color.Color {
	if noColor {
		c := color.New()
		c.DisableColor()
		return c
	}
	return color.New(attributes...)
}

// printReports - writes one row per scenario and a summary line
func printReports(w io.Writer, reports []entities.ScenarioReport, noColor bool) error {
	pass := getColor(noColor, color.FgGreen, color.Bold)
	fail := getColor(noColor, color.FgRed, color.Bold)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tRESULT\tDURATION\tDETAILS")

	failed := 0
	for _, r := range reports {
		status := pass.Sprint("PASS")
		if !r.Passed {
			status = fail.Sprint("FAIL")
			failed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, status, r.Duration.Round(time.Millisecond), failureDetails(r))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	summary := pass
	if failed > 0 {
		summary = fail
	}
	_, err := summary.Fprintf(w, "\n%d scenarios, %d passed, %d failed\n", len(reports), len(reports)-failed, failed)
	return err
}

func failureDetails(r entities.ScenarioReport) string {
	if r.Passed {
		return ""
	}
	if step, ok := r.FailedStep(); ok {
		if step.Details == "" {
			return step.Message
		}
		return step.Message + ": " + oneLine(step.Details)
	}
	if r.Err != nil {
		return oneLine(r.Err.Error())
	}
	return ""
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func printScenarios(w io.Writer, scenarios []scenario.Scenario) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range scenarios {
		fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Description)
	}
	return tw.Flush()
}
