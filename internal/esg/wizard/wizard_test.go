package wizard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Input order: 3 screening answers, then E1 E2 E3-waste E3-water E4 E5 E6,
// S1 S2 S3 S4 S5, G1 G2 G3 G4 G5 G6 G7.
func script(lines ...string) io.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestWizardBestAnswers(t *testing.T) {
	in := script(
		"n", "n", "",
		"1", "1", "y", "y", "y", "y", "yes",
		"1", "1", "y", "y", "y",
		"1", "1", "y", "y", "y", "y", "y",
	)
	var out bytes.Buffer
	res, err := New(in, &out).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Screening.Passed)
	assert.Equal(t, "completed-scope1-2", res.Answers["e1_carbonManagement"])
	assert.Equal(t, "yes", res.Answers["e3_water"])
	assert.Len(t, res.Answers, 19)
	assert.Equal(t, "A", res.Assessment.Level)
	assert.Equal(t, 100.0, res.Assessment.Total)
	assert.Contains(t, out.String(), "--- Step 4/4: Governance ---")
	assert.Contains(t, out.String(), "(e3_waste)")
}

func TestWizardDefaultsAndRetries(t *testing.T) {
	in := script(
		"", "", "",
		"9", "abc", "4", // E1: two bad choices, then "none of the above"
		"3", "", "", "", "", "",
		"2", "3", "", "", "",
		"2", "2", "", "", "", "", "",
	)
	var out bytes.Buffer
	res, err := New(in, &out).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "no", res.Answers["e1_carbonManagement"])
	assert.Equal(t, "basic-measures", res.Answers["e2_energyEfficiency"])
	assert.Equal(t, "no", res.Answers["s2_welfare"])
	assert.Equal(t, "minor-violations-resolved", res.Answers["g2_compliance"])
	assert.Equal(t, 4+4+5+5, int(res.Assessment.Total))
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a number between 1 and 4."))
}

func TestWizardScreeningFails(t *testing.T) {
	var out bytes.Buffer
	res, err := New(script("y", "n", "y"), &out).Run(context.Background())
	require.ErrorIs(t, err, ErrScreeningFailed)

	require.NotNil(t, res)
	assert.False(t, res.Screening.Passed)
	assert.Len(t, res.Screening.Actions, 2)
	assert.Nil(t, res.Assessment)
	assert.NotContains(t, out.String(), "Step 2/4")
}

func TestWizardReasksUnrecognizedYesNo(t *testing.T) {
	var out bytes.Buffer
	res, err := New(script("yse", "y", "n", "是"), &out).Run(context.Background())
	require.ErrorIs(t, err, ErrScreeningFailed)

	require.NotNil(t, res)
	assert.False(t, res.Screening.Passed)
	assert.Len(t, res.Screening.Actions, 2)
	assert.Equal(t, 1, strings.Count(out.String(), "Please answer y or n."))
}

func TestWizardEnvironmentStep(t *testing.T) {
	in := script(
		"n", "n", "n",
		"4", "4", "n", "n", "n", "n", "n",
		"3", "3", "n", "n", "n",
		"3", "3", "n", "n", "n", "n", "n",
		"120.5", "-3", "80", "", "1500",
	)
	w := New(in, io.Discard)
	w.AskEnvironment = true
	res, err := w.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, res.EnvironmentalData)
	assert.Equal(t, 120.5, res.EnvironmentalData.Scope1Emissions)
	assert.Equal(t, 80.0, res.EnvironmentalData.Scope2Emissions)
	assert.Equal(t, 0.0, res.EnvironmentalData.ElectricityUsage)
	assert.Equal(t, 1500.0, res.EnvironmentalData.WaterUsage)
	assert.Equal(t, "D", res.Assessment.Level)
}

func TestWizardTruncatedInput(t *testing.T) {
	_, err := New(script("n", "n", "n", "1"), io.Discard).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "Environment")
}

func TestWizardCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(script("n"), io.Discard).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
