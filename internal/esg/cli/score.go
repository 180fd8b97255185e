package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/build-flow-labs/esgrate/internal/esg/score"
	"github.com/build-flow-labs/esgrate/internal/esg/scorecard"
	"github.com/build-flow-labs/esgrate/rating"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

const answersSuffix = ".answers.json"

var (
	scoreJSON     bool
	scoreWrite    bool
	scorePNG      bool
	scoreMinGrade string
)

var scoreCmd = &cobra.Command{
	Use:   "score <file|directory>",
	Short: "Score ESG questionnaire answers",
	Long: `Normalizes questionnaire answers onto the rubric and produces a
rated assessment (A-D) with the financing tier it qualifies for.

Categories:
  Environment  carbon management, energy, waste, water (max 35)
  Social       training, welfare, supply chain, community (max 35)
  Governance   oversight, compliance, integrity, disclosure (max 30)

Pass a single answers file or a directory to score every *.answers.json in it.
Use --json for machine-readable output.
Use --write to save each assessment next to its answers file.
Use --png to render a scorecard image next to each answers file.
Use --min-grade to fail when any assessment rates below a grade.`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Output JSON instead of formatted table")
	scoreCmd.Flags().BoolVar(&scoreWrite, "write", false, "Write <name>.assessment.json next to each answers file")
	scoreCmd.Flags().BoolVar(&scorePNG, "png", false, "Write <name>.scorecard.png next to each answers file")
	scoreCmd.Flags().StringVar(&scoreMinGrade, "min-grade", "", "Gate: exit non-zero if any assessment rates below A, B, C or D")
}

type scoreResult struct {
	File       string             `json:"file"`
	Assessment *schema.Assessment `json:"assessment"`

	path string
	err  error
}

func runScore(cmd *cobra.Command, args []string) error {
	gate := rating.Level(strings.ToUpper(scoreMinGrade))
	if scoreMinGrade != "" && gate.Rank() == 0 {
		return fmt.Errorf("invalid --min-grade %q: want A, B, C or D", scoreMinGrade)
	}

	files, err := answerFiles(args[0])
	if err != nil {
		return err
	}

	results := make([]scoreResult, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		g.Go(func() error {
			results[i] = scoreFile(f)
			return nil
		})
	}
	_ = g.Wait()

	var scored []scoreResult
	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipping %s: %v\n", r.path, r.err)
			continue
		}
		scored = append(scored, r)
	}
	if len(scored) == 0 {
		return fmt.Errorf("no valid answers files to score")
	}

	if scoreJSON {
		out, _ := json.MarshalIndent(scored, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return checkGate(scored, gate)
	}

	out := cmd.OutOrStdout()
	if len(scored) == 1 {
		printAssessment(out, scored[0].File, scored[0].Assessment)
		return checkGate(scored, gate)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "FILE\tGRADE\tTOTAL\tE\tS\tG\n")
	fmt.Fprintf(w, "----\t-----\t-----\t-\t-\t-\n")
	for _, r := range scored {
		a := r.Assessment
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%d\t%d\t%d\n", r.File, a.Level, a.Total, a.E, a.S, a.G)
	}
	w.Flush()

	fmt.Fprintln(out)
	for _, r := range scored {
		printAssessment(out, r.File, r.Assessment)
		fmt.Fprintln(out)
	}
	return checkGate(scored, gate)
}

// checkGate fails when any assessment rates below floor. An empty floor
// passes.
func checkGate(results []scoreResult, floor rating.Level) error {
	if floor == "" {
		return nil
	}
	var below []string
	for _, r := range results {
		if rating.Level(r.Assessment.Level).Rank() < floor.Rank() {
			below = append(below, r.File)
		}
	}
	if len(below) > 0 {
		return fmt.Errorf("gate failed: %d assessment(s) below grade %s: %s", len(below), floor, strings.Join(below, ", "))
	}
	return nil
}

func answerFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), answersSuffix) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", answersSuffix, path)
	}
	return files, nil
}

func scoreFile(path string) scoreResult {
	res := scoreResult{File: filepath.Base(path), path: path}

	var raw rubric.Answers
	if err := readJSONFile(path, &raw); err != nil {
		res.err = err
		return res
	}
	res.Assessment = score.Score(raw)

	base := strings.TrimSuffix(strings.TrimSuffix(path, answersSuffix), ".json")
	if scoreWrite {
		data, err := json.MarshalIndent(res.Assessment, "", "  ")
		if err == nil {
			err = os.WriteFile(base+".assessment.json", data, 0o644)
		}
		if err != nil {
			res.err = fmt.Errorf("writing assessment: %w", err)
			return res
		}
	}
	if scorePNG {
		img, err := scorecard.Render(res.Assessment, scorecard.Options{Title: filepath.Base(base)})
		if err == nil {
			err = os.WriteFile(base+".scorecard.png", img, 0o644)
		}
		if err != nil {
			res.err = fmt.Errorf("writing scorecard: %w", err)
			return res
		}
	}
	return res
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

func printAssessment(out io.Writer, name string, a *schema.Assessment) {
	fmt.Fprintf(out, "ESG RATING: %s  [%s %s] %.0f/100\n", name, a.Level, a.LevelName, a.Total)
	fmt.Fprintln(out, strings.Repeat("─", 60))

	points := map[rubric.Category]int{rubric.Environment: a.E, rubric.Social: a.S, rubric.Governance: a.G}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range rubric.Categories {
		fmt.Fprintf(w, "  %s\t%d/%d\n", c.Name(), points[c], c.Cap())
		w.Flush()
		for _, id := range a.Improvements {
			if strings.HasPrefix(id, string(c)) {
				fmt.Fprintf(out, "    - %s: %s\n", id, rubric.Hint(id))
			}
		}
	}

	fmt.Fprintf(out, "  Rate discount: %s\n", a.RateDiscountRange)
	if len(a.Products) > 0 {
		fmt.Fprintf(out, "  Products: %s\n", strings.Join(a.Products, ", "))
	}
	if a.Warning != "" {
		fmt.Fprintf(out, "  Warning: %s\n", a.Warning)
	}
}
