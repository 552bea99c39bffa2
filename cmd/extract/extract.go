// Package extract implements the extract command
package extract

import (
	"fmt"

	"fjacquet/upi-ledger/cmd/common"
	"fjacquet/upi-ledger/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract categorized transactions from a statement",
	Long: `Extract UPI transactions from a PDF, CSV or plain-text statement,
categorize them and write the result as CSV.

The document kind is taken from the file extension. Without --output the
CSV is written to stdout.`,
	RunE: extractFunc,
}

func extractFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}

	result, err := common.ProcessFile(cmd.Context(), c.GetIngestService(),
		root.SharedFlags.Input, root.SharedFlags.Output, root.CSVDelimiter(),
		cmd.OutOrStdout(), c.GetLogger())
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "phone %s, user %s: %d transactions, %d stored\n",
		result.Phone, result.UserID, len(result.Transactions), result.Stored)
	return err
}
