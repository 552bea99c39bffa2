// Package batch consolidates the statements of a directory into one ledger per user.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// UserGroup is the consolidated ledger of one statement owner.
type UserGroup struct {
	UserID       string
	Phone        string
	Files        []string
	Transactions []models.EnrichedTransaction
	DateRange    DateRange
	Duplicates   int
}

// Aggregator merges ingest results by user.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Aggregator{logger: logger}
}

// GroupByUser merges results that belong to the same user. Transactions that
// appear in more than one statement (same date and fingerprint) are kept once.
// Groups are sorted by user ID and their transactions chronologically.
func (a *Aggregator) GroupByUser(results []*ingest.Result) []UserGroup {
	byUser := make(map[string]*UserGroup)
	seen := make(map[string]map[string]bool)

	for _, result := range results {
		if result == nil {
			continue
		}
		group, ok := byUser[result.UserID]
		if !ok {
			group = &UserGroup{UserID: result.UserID, Phone: result.Phone}
			byUser[result.UserID] = group
			seen[result.UserID] = make(map[string]bool)
		}
		group.Files = append(group.Files, result.Source)

		for _, tx := range result.Transactions {
			key := tx.Date.Format("2006-01-02") + "|" + tx.Fingerprint()
			if seen[result.UserID][key] {
				group.Duplicates++
				a.logger.Debug("Dropping transaction repeated across statements",
					logging.Field{Key: logging.FieldUserID, Value: result.UserID},
					logging.Field{Key: logging.FieldFile, Value: result.Source},
					logging.Field{Key: logging.FieldDescription, Value: tx.Description})
				continue
			}
			seen[result.UserID][key] = true
			group.Transactions = append(group.Transactions, tx)
		}
	}

	groups := make([]UserGroup, 0, len(byUser))
	for _, group := range byUser {
		SortChronologically(group.Transactions)
		group.DateRange = CalculateDateRange(group.Transactions)
		if group.Duplicates > 0 {
			a.logger.Warn("Found transactions repeated across statements",
				logging.Field{Key: logging.FieldUserID, Value: group.UserID},
				logging.Field{Key: logging.FieldCount, Value: group.Duplicates})
		}
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].UserID < groups[j].UserID
	})

	a.logger.Info("Grouped statements by user",
		logging.Field{Key: "total_files", Value: len(results)},
		logging.Field{Key: "user_groups", Value: len(groups)})
	return groups
}

// SortChronologically sorts transactions by date, then amount, then description.
func SortChronologically(transactions []models.EnrichedTransaction) {
	sort.SliceStable(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.Before(transactions[j].Date)
		}
		if !transactions[i].Amount.Equal(transactions[j].Amount) {
			return transactions[i].Amount.LessThan(transactions[j].Amount)
		}
		return transactions[i].Description < transactions[j].Description
	})
}

// CalculateDateRange returns the overall date range of transactions.
func CalculateDateRange(transactions []models.EnrichedTransaction) DateRange {
	if len(transactions) == 0 {
		return DateRange{}
	}

	start := transactions[0].Date
	end := transactions[0].Date
	for _, tx := range transactions {
		if tx.Date.Before(start) {
			start = tx.Date
		}
		if tx.Date.After(end) {
			end = tx.Date
		}
	}
	return DateRange{Start: start, End: end}
}

// OutputFilename creates a filename for a consolidated ledger.
// Format: {user_id}_{start_date}_{end_date}.csv
func OutputFilename(group UserGroup) string {
	if r := group.DateRange.String(); r != "" {
		return fmt.Sprintf("%s_%s.csv", group.UserID, r)
	}
	return fmt.Sprintf("%s.csv", group.UserID)
}

// SourceFileHeader creates a header comment listing source files
func SourceFileHeader(sourceFiles []string, generated time.Time) string {
	if len(sourceFiles) == 0 {
		return ""
	}

	var header strings.Builder
	header.WriteString("# Consolidated from source files:\n")
	for _, file := range sourceFiles {
		header.WriteString(fmt.Sprintf("# - %s\n", filepath.Base(file)))
	}
	header.WriteString("# Generated on: ")
	header.WriteString(generated.Format("2006-01-02 15:04:05"))
	header.WriteString("\n#\n")

	return header.String()
}
