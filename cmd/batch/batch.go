// Package batch handles batch processing of files
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/upi-ledger/cmd/common"
	"fjacquet/upi-ledger/cmd/root"
	"fjacquet/upi-ledger/internal/batch"
	"fjacquet/upi-ledger/internal/fileutils"
	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/logging"

	ledgercsv "fjacquet/upi-ledger/internal/common"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process statements from a directory",
	Long: `Batch process every PDF, CSV and text statement found under an input
directory and write one consolidated ledger per statement owner.

Statements of the same phone number are merged, transactions repeated in
overlapping statements are kept once, and the output is named
{user_id}_{start}_{end}.csv.

Example:
  upi-ledger batch -i statements/ -o ledgers/`,
	RunE: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}

	count, err := Run(cmd.Context(), c.GetIngestService(), root.SharedFlags.Input, root.SharedFlags.Output,
		root.CSVDelimiter(), c.GetLogger())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.ErrOrStderr(), "Batch processing completed. %d consolidated files created.\n", count)
	return err
}

// Run processes the statements under inputDir and writes one CSV per user to
// outputDir. Files that fail are logged and skipped. It returns the number of
// files written.
func Run(ctx context.Context, p common.DocumentProcessor, inputDir, outputDir string, delimiter rune, logger logging.Logger) (int, error) {
	if inputDir == "" || outputDir == "" {
		return 0, fmt.Errorf("input and output directories must be specified")
	}

	files, err := fileutils.ListFilesWithExtensions(inputDir, fileutils.StatementExtensions...)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory")
		return 0, nil
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return 0, err
	}

	logger.Info("Found files for processing", logging.Field{Key: logging.FieldCount, Value: len(files)})

	results := make([]*ingest.Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		result, err := common.ProcessDocument(ctx, p, file, logger)
		if err != nil {
			logger.WithError(err).Warn("Skipping statement",
				logging.Field{Key: logging.FieldFile, Value: filepath.Base(file)})
			continue
		}
		result.Source = file
		results = append(results, result)
	}

	aggregator := batch.NewAggregator(logger)
	written := 0
	for _, group := range aggregator.GroupByUser(results) {
		outputPath := filepath.Join(outputDir, batch.OutputFilename(group))
		header := batch.SourceFileHeader(group.Files, time.Now())
		if err := writeConsolidatedCSV(group, outputPath, header, delimiter, logger); err != nil {
			logger.WithError(err).Error("Failed to write consolidated CSV",
				logging.Field{Key: logging.FieldUserID, Value: group.UserID},
				logging.Field{Key: logging.FieldOutputFile, Value: outputPath})
			continue
		}

		logger.Info("Created consolidated file",
			logging.Field{Key: logging.FieldUserID, Value: group.UserID},
			logging.Field{Key: logging.FieldCount, Value: len(group.Transactions)},
			logging.Field{Key: logging.FieldOutputFile, Value: outputPath})
		written++
	}
	return written, nil
}

// writeConsolidatedCSV writes a header comment followed by the transactions.
func writeConsolidatedCSV(group batch.UserGroup, outputPath, headerComment string, delimiter rune, logger logging.Logger) error {
	file, err := os.Create(outputPath) // #nosec G304 -- CLI tool requires user-provided output paths
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close output file")
		}
	}()

	if _, err := file.WriteString(headerComment); err != nil {
		return fmt.Errorf("failed to write header comment: %w", err)
	}
	return ledgercsv.WriteTransactions(file, group.Transactions, delimiter)
}
