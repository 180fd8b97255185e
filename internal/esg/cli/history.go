package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/internal/esg/achievements"
	"github.com/build-flow-labs/esgrate/internal/esg/history"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

var (
	historyCompany string
	historyRating  string
	historySort    string
	historyDesc    bool
	historyLimit   int
	historyJSON    bool

	submitName string
	submitEnv  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and record assessment history",
	Long: `Reads and writes the assessment history configured in the storage
section of --config (file, sqlite or postgres). Without a subcommand it
lists records like "history list".`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored assessments",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historySubmitCmd = &cobra.Command{
	Use:   "submit <answers-file>",
	Short: "Score answers and store them in the company's history",
	Long: `Scores an answers file, stores the result unless it repeats the
company's latest submission, and unlocks any achievements the history now
earns.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistorySubmit,
}

var historyAchievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List a company's unlocked achievements",
	Args:  cobra.NoArgs,
	RunE:  runHistoryAchievements,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyCompany, "company", "", "Company id")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "Output JSON")

	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().StringVar(&historyRating, "rating", "", "Only list this rating (A-D)")
		c.Flags().StringVar(&historySort, "sort", "timestamp", "Sort by timestamp, total or rating")
		c.Flags().BoolVar(&historyDesc, "desc", false, "Sort descending")
		c.Flags().IntVar(&historyLimit, "limit", 0, "Maximum records (0 for all)")
	}

	historySubmitCmd.Flags().StringVar(&submitName, "name", "", "Company display name")
	historySubmitCmd.Flags().StringVar(&submitEnv, "environmental-data", "", "JSON file with scope1Emissions, scope2Emissions, electricityUsage, waterUsage")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historySubmitCmd)
	historyCmd.AddCommand(historyAchievementsCmd)
}

// withStore opens the configured store for the duration of fn.
func withStore(ctx context.Context, fn func(history.Store) error) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	store, err := history.Open(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	return withStore(cmd.Context(), func(store history.Store) error {
		records, err := store.List(cmd.Context(), history.ListOptions{
			Company:   historyCompany,
			Rating:    historyRating,
			SortField: historySort,
			SortDesc:  historyDesc,
			Limit:     historyLimit,
		})
		if err != nil {
			return err
		}
		if historyJSON {
			return printJSON(cmd.OutOrStdout(), records)
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no assessments recorded")
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "COMPANY\tDATE\tRATING\tTOTAL\tE\tS\tG\tID\n")
		fmt.Fprintf(w, "-------\t----\t------\t-----\t-\t-\t-\t--\n")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%d\t%d\t%d\t%s\n",
				r.CompanyID, r.Date, r.Rating, r.Scores.Total, r.Scores.E, r.Scores.S, r.Scores.G, r.ID)
		}
		return w.Flush()
	})
}

func runHistorySubmit(cmd *cobra.Command, args []string) error {
	var raw rubric.Answers
	if err := readJSONFile(args[0], &raw); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	var env *schema.EnvironmentalData
	if submitEnv != "" {
		env = &schema.EnvironmentalData{}
		if err := readJSONFile(submitEnv, env); err != nil {
			return fmt.Errorf("reading %s: %w", submitEnv, err)
		}
	}
	return storeAssessment(cmd, historyCompany, submitName, raw, env)
}

// storeAssessment scores raw, records it in the company's history and
// reports any achievements it unlocks.
func storeAssessment(cmd *cobra.Command, company, name string, raw rubric.Answers, env *schema.EnvironmentalData) error {
	rec, _, err := history.NewRecord(company, name, raw, env, time.Now())
	if err != nil {
		return err
	}

	engine, err := achievements.New()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	return withStore(ctx, func(store history.Store) error {
		saved, created, err := history.Submit(ctx, store, rec)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !created {
			fmt.Fprintf(out, "unchanged: answers match assessment %s from %s\n", saved.ID, saved.Date)
			return nil
		}
		unlocked, err := engine.Refresh(ctx, store, saved.CompanyID)
		if err != nil {
			return err
		}
		if historyJSON {
			return printJSON(out, map[string]any{"record": saved, "newAchievements": unlocked})
		}
		fmt.Fprintf(out, "stored %s: [%s] %.0f/100\n", saved.ID, saved.Rating, saved.Scores.Total)
		printAchievements(out, unlocked)
		return nil
	})
}

func runHistoryAchievements(cmd *cobra.Command, args []string) error {
	if err := history.ValidCompany(historyCompany); err != nil {
		return err
	}
	return withStore(cmd.Context(), func(store history.Store) error {
		list, err := store.Achievements(cmd.Context(), historyCompany)
		if err != nil {
			return err
		}
		if historyJSON {
			return printJSON(cmd.OutOrStdout(), list)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no achievements unlocked")
			return nil
		}
		printAchievements(cmd.OutOrStdout(), list)
		return nil
	})
}

func printAchievements(out io.Writer, list []schema.Achievement) {
	for _, a := range list {
		fmt.Fprintf(out, "  %s %s (%s): %s\n", a.Icon, a.Name, a.UnlockedDate, a.Description)
	}
}

func printJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
