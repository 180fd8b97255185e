package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/internal/esg/score"
	"github.com/build-flow-labs/esgrate/taxonomy"
)

var classifyJSON bool

var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Classify economic activities against the sustainable taxonomy",
	Long: `Tags each activity Y (compliant), T (transitioning), N (non-compliant)
or X (out of scope) and grades the compliant share of in-scope activities.

The file holds a single activity object or a JSON array of them. Activities
rated N because their transition plan was missing or not applicable are
flagged for review.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Output JSON instead of formatted table")
}

func runClassify(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading activities: %w", err)
	}
	activities, err := parseActivities(data)
	if err != nil {
		return err
	}
	report := score.ScoreActivities(activities)

	out := cmd.OutOrStdout()
	if classifyJSON {
		b, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(out, string(b))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "CODE\tACTIVITY\tTAG\tSTATUS\n")
	fmt.Fprintf(w, "----\t--------\t---\t------\n")
	for _, r := range report.Results {
		status := r.Classification.Label
		if r.Classification.Flagged {
			status += " (review)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", orDash(r.Activity.Code), orDash(r.Activity.Name), r.Classification.Rating, status)
	}
	w.Flush()

	fmt.Fprintln(out)
	for _, tag := range taxonomy.Ratings {
		fmt.Fprintf(out, "  %s %-4s %d\n", tag, tag.Label(), report.Counts[tag])
	}
	fmt.Fprintf(out, "\nCompliance: [%s] %.1f%% of %d in-scope activities\n",
		report.Rating.Level, report.Rating.Percentage, report.InScope)
	fmt.Fprintf(out, "  %s\n", report.Rating.Description)
	return nil
}

// parseActivities accepts one activity object or an array of them.
func parseActivities(data []byte) ([]taxonomy.Activity, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var list []taxonomy.Activity
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("invalid activity list: %w", err)
		}
		return list, nil
	}
	var a taxonomy.Activity
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("invalid activity: %w", err)
	}
	return []taxonomy.Activity{a}, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
