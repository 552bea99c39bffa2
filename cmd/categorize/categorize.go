// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/upi-ledger/cmd/root"
	"fjacquet/upi-ledger/internal/categorizer"
	"fjacquet/upi-ledger/internal/currencyutils"
	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/textutils"

	"github.com/spf13/cobra"
)

var (
	description string
	amount      string
	phone       string
	explain     bool
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single transaction description",
	Long: `Categorize a transaction description the same way uploaded statements are
categorized: merchant mapping and keywords first, then similarity with the
user's earlier transactions, then the language model when it is enabled.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description to categorize")
	Cmd.Flags().StringVarP(&amount, "amount", "a", "", "Transaction amount (optional)")
	Cmd.Flags().StringVarP(&phone, "phone", "p", "", "Statement owner's phone, selects the user's memories (optional)")
	Cmd.Flags().BoolVar(&explain, "explain", false, "Print the outcome of every categorization tier")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}

	tx := categorizer.Transaction{
		Description: strings.TrimSpace(description),
		Amount:      currencyutils.ParseAmount(amount),
	}
	if phone != "" {
		tx.UserID = ingest.UserID(textutils.NormalizePhone(phone))
	}
	cls, trace := c.GetCategorizer().Categorize(cmd.Context(), tx)
	return Print(cmd.OutOrStdout(), tx.Description, cls, trace, explain)
}

// Print writes a categorization result for people.
func Print(w io.Writer, description string, cls models.Classification, trace categorizer.StrategyResults, explain bool) error {
	if _, err := fmt.Fprintf(w, "%s\t%.2f\t%s\n", cls.Category, cls.Confidence, cls.Method); err != nil {
		return err
	}
	if merchant := textutils.ExtractMerchant(description); merchant != "" {
		if _, err := fmt.Fprintf(w, "merchant\t%s\n", merchant); err != nil {
			return err
		}
	}
	if !explain {
		return nil
	}
	_, err := fmt.Fprintln(w, trace.Summary())
	return err
}
