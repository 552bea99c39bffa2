// Package categories lists the category table and writes a starter file
package categories

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"fjacquet/upi-ledger/cmd/root"
	"fjacquet/upi-ledger/internal/models"
	"fjacquet/upi-ledger/internal/store"

	"github.com/spf13/cobra"
)

var initPath string

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and merchant mappings",
	Long: `List the categories with their keywords and the merchant mappings in use.

With --init the built-in table is written to a YAML file that can be edited
and referenced from categorization.categories_file.`,
	RunE: categoriesFunc,
}

func init() {
	Cmd.Flags().StringVar(&initPath, "init", "", "Write the built-in categories to this file and exit")
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	if initPath != "" {
		if err := store.SaveDefaults(initPath); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", initPath)
		return err
	}

	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	categories, err := c.GetStore().LoadCategories()
	if err != nil {
		return err
	}
	merchants, err := c.GetStore().LoadMerchantMappings()
	if err != nil {
		return err
	}
	return Print(cmd.OutOrStdout(), categories, merchants)
}

// Print writes the category table followed by the merchant mappings.
func Print(w io.Writer, categories []models.CategoryConfig, merchants map[string]string) error {
	for _, c := range categories {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", c.Name, strings.Join(c.Keywords, ", ")); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(merchants))
	for name := range merchants {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "merchant\t%s\t%s\n", name, merchants[name]); err != nil {
			return err
		}
	}
	return nil
}
