package categorize_test

import (
	"bytes"
	"errors"
	"testing"

	"fjacquet/upi-ledger/cmd/categorize"
	"fjacquet/upi-ledger/internal/categorizer"
	"fjacquet/upi-ledger/internal/models"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categorize", categorize.Cmd.Use)
	assert.Contains(t, categorize.Cmd.Short, "Categorize a single transaction")
	assert.NotNil(t, categorize.Cmd.RunE)
}

func TestCategorizeCommand_Flags(t *testing.T) {
	descriptionFlag := categorize.Cmd.Flags().Lookup("description")
	require.NotNil(t, descriptionFlag)
	assert.Equal(t, "d", descriptionFlag.Shorthand)
	assert.Contains(t, descriptionFlag.Usage, "description")

	amountFlag := categorize.Cmd.Flags().Lookup("amount")
	require.NotNil(t, amountFlag)
	assert.Equal(t, "a", amountFlag.Shorthand)

	phoneFlag := categorize.Cmd.Flags().Lookup("phone")
	require.NotNil(t, phoneFlag)
	assert.Equal(t, "p", phoneFlag.Shorthand)

	explainFlag := categorize.Cmd.Flags().Lookup("explain")
	require.NotNil(t, explainFlag)
	assert.Equal(t, "false", explainFlag.DefValue)
}

func TestCategorizeCommand_RequiresContainer(t *testing.T) {
	err := categorize.Cmd.RunE(&cobra.Command{}, nil)
	assert.EqualError(t, err, "application is not initialized")
}

func TestPrint(t *testing.T) {
	cls := models.Classification{Category: "Food & Dining", Confidence: 0.9, Method: models.MethodKeyword}
	trace := categorizer.StrategyResults{Results: []categorizer.StrategyResult{
		{Strategy: "vector", Error: errors.New("offline")},
		{Strategy: "llm", Classification: cls, Accepted: true},
	}}

	var out bytes.Buffer
	require.NoError(t, categorize.Print(&out, "UPI SWIGGY 42", cls, trace, false))
	assert.Equal(t, "Food & Dining\t0.90\tkeyword\nmerchant\tSwiggy\n", out.String())

	out.Reset()
	require.NoError(t, categorize.Print(&out, "RANDOM", cls, trace, true))
	assert.Equal(t, "Food & Dining\t0.90\tkeyword\nvector:error, llm:accepted(0.90)\n", out.String())
}
