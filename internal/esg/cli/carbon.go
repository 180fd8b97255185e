package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/carbon"
)

var (
	carbonInputs carbon.Inputs
	carbonJSON   bool
)

var carbonCmd = &cobra.Command{
	Use:   "carbon",
	Short: "Estimate a Scope 1 and 2 carbon footprint",
	Long: `Converts one period of fuel and electricity usage into kg CO2e.

Scope 1 covers natural gas (m³), gasoline, diesel and LPG (L).
Scope 2 covers purchased electricity (kWh).`,
	Args: cobra.NoArgs,
	RunE: runCarbon,
}

func init() {
	f := carbonCmd.Flags()
	f.Float64Var((*float64)(&carbonInputs.NaturalGas), "natural-gas", 0, "Natural gas used (m³)")
	f.Float64Var((*float64)(&carbonInputs.Gasoline), "gasoline", 0, "Gasoline used (L)")
	f.Float64Var((*float64)(&carbonInputs.Diesel), "diesel", 0, "Diesel used (L)")
	f.Float64Var((*float64)(&carbonInputs.LPG), "lpg", 0, "LPG used (L)")
	f.Float64Var((*float64)(&carbonInputs.Electricity), "electricity", 0, "Electricity used (kWh)")
	f.BoolVar(&carbonJSON, "json", false, "Output JSON")
}

func runCarbon(cmd *cobra.Command, args []string) error {
	fp := carbon.Compute(carbonInputs)
	suggestions := carbon.Suggestions(fp)

	out := cmd.OutOrStdout()
	if carbonJSON {
		b, _ := json.MarshalIndent(struct {
			carbon.Footprint
			Suggestions []carbon.Suggestion `json:"suggestions"`
		}{fp, suggestions}, "", "  ")
		fmt.Fprintln(out, string(b))
		return nil
	}

	fmt.Fprintf(out, "CARBON FOOTPRINT: %.2f %s\n", fp.Total, fp.Unit)
	fmt.Fprintf(out, "  Scope 1: %.2f\n", fp.Scope1)
	fmt.Fprintf(out, "  Scope 2: %.2f\n", fp.Scope2)

	sources := make([]string, 0, len(fp.Breakdown))
	for k := range fp.Breakdown {
		sources = append(sources, k)
	}
	sort.Strings(sources)
	for _, k := range sources {
		fmt.Fprintf(out, "    %-12s %.2f\n", k, fp.Breakdown[k])
	}

	for _, s := range suggestions {
		fmt.Fprintf(out, "\n%s\n", s.Title)
		for _, item := range s.Items {
			fmt.Fprintf(out, "  - %s\n", item)
		}
	}
	return nil
}
