package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/build-flow-labs/esgrate/internal/esg/wizard"
)

var (
	assessOutput  string
	assessCompany string
	assessName    string
	assessEnv     bool
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Interactive ESG self-assessment questionnaire",
	Long: `Walks through the eligibility screening and every rubric question,
then prints the rated assessment.

  1. Screens for major environmental, labor and governance violations
  2. Asks the Environment, Social and Governance questions
  3. Optionally collects environmental usage (--environment)

Use --output to save the answers for "esgrate score" or "history submit".
Use --company to record the result in the configured history.`,
	Args: cobra.NoArgs,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().StringVar(&assessOutput, "output", "", "Write the collected answers to this file")
	assessCmd.Flags().StringVar(&assessCompany, "company", "", "Record the assessment under this company id")
	assessCmd.Flags().StringVar(&assessName, "name", "", "Company display name")
	assessCmd.Flags().BoolVar(&assessEnv, "environment", false, "Also ask for environmental usage data")
}

func runAssess(cmd *cobra.Command, args []string) error {
	w := wizard.New(cmd.InOrStdin(), cmd.OutOrStdout())
	w.AskEnvironment = assessEnv

	res, err := w.Run(cmd.Context())
	if errors.Is(err, wizard.ErrScreeningFailed) {
		return err
	}
	if err != nil {
		return fmt.Errorf("questionnaire aborted: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	printAssessment(out, "self-assessment", res.Assessment)

	if assessOutput != "" {
		data, err := json.MarshalIndent(res.Answers, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(assessOutput, data, 0o644); err != nil {
			return fmt.Errorf("writing answers: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "answers written to %s\n", assessOutput)
	}

	if assessCompany != "" {
		return storeAssessment(cmd, assessCompany, assessName, res.Answers, res.EnvironmentalData)
	}
	return nil
}
