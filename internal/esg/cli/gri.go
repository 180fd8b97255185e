package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/gri"
)

var griJSON bool

var griCmd = &cobra.Command{
	Use:   "gri <file>",
	Short: "Score a GRI disclosure self-assessment",
	Long: `Scores answered GRI disclosure items per category, weights them
(E 0.35, S 0.35, G 0.30) and grades the weighted total.

The file holds {"E": [...], "S": [...], "G": [...]} where each item is
{"label": "...", "value": "no|basic|developing|yes|advanced"}. A wrapping
{"responses": {...}} object is accepted too.`,
	Args: cobra.ExactArgs(1),
	RunE: runGRI,
}

func init() {
	griCmd.Flags().BoolVar(&griJSON, "json", false, "Output JSON")
}

func runGRI(cmd *cobra.Command, args []string) error {
	var doc struct {
		gri.Responses
		Wrapped *gri.Responses `json:"responses"`
	}
	if err := readJSONFile(args[0], &doc); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	resp := doc.Responses
	if doc.Wrapped != nil {
		resp = *doc.Wrapped
	}
	res := gri.Score(resp)

	out := cmd.OutOrStdout()
	if griJSON {
		b, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(out, string(b))
		return nil
	}

	fmt.Fprintf(out, "GRI ASSESSMENT: %s  %.1f\n", res.Level, res.Total)
	fmt.Fprintf(out, "  E %d  S %d  G %d\n", res.E, res.S, res.G)
	fmt.Fprintf(out, "  %s\n", res.Summary)
	for _, r := range res.Recommendations {
		fmt.Fprintf(out, "    - %s\n", r)
	}
	return nil
}
