package batch

import (
	"testing"
	"time"

	"fjacquet/upi-ledger/internal/ingest"
	"fjacquet/upi-ledger/internal/logging"
	"fjacquet/upi-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func tx(date time.Time, description, amount string) models.EnrichedTransaction {
	return models.EnrichedTransaction{
		CandidateTransaction: models.CandidateTransaction{
			Date:        date,
			Description: description,
			Amount:      decimal.RequireFromString(amount),
		},
		Category: models.CategoryOther,
	}
}

func TestDateRange(t *testing.T) {
	r := DateRange{Start: day(3), End: day(5)}
	assert.Equal(t, "2024-05-03_2024-05-05", r.String())
	assert.Equal(t, "", DateRange{Start: day(3)}.String())

	merged := r.Merge(DateRange{Start: day(1), End: day(4)})
	assert.Equal(t, DateRange{Start: day(1), End: day(5)}, merged)
	assert.Equal(t, r, DateRange{}.Merge(r))
	assert.Equal(t, r, r.Merge(DateRange{}))
}

func TestGroupByUser(t *testing.T) {
	logger := logging.NewMockLogger()
	a := NewAggregator(logger)

	results := []*ingest.Result{
		{Source: "may.pdf", UserID: "u2", Phone: "+919876543210", Transactions: []models.EnrichedTransaction{
			tx(day(10), "SWIGGY ORDER", "450"),
			tx(day(2), "UBER TRIP", "199.50"),
		}},
		{Source: "other.csv", UserID: "u1", Phone: "+919000000000", Transactions: []models.EnrichedTransaction{
			tx(day(1), "ZOMATO", "300"),
		}},
		nil,
		{Source: "overlap.txt", UserID: "u2", Phone: "+919876543210", Transactions: []models.EnrichedTransaction{
			tx(day(10), "SWIGGY ORDER", "450"),
			tx(day(11), "SWIGGY ORDER", "450"),
		}},
	}

	groups := a.GroupByUser(results)
	require.Len(t, groups, 2)
	assert.Equal(t, "u1", groups[0].UserID)
	assert.Equal(t, []string{"other.csv"}, groups[0].Files)

	g := groups[1]
	assert.Equal(t, "u2", g.UserID)
	assert.Equal(t, "+919876543210", g.Phone)
	assert.Equal(t, []string{"may.pdf", "overlap.txt"}, g.Files)
	assert.Equal(t, 1, g.Duplicates)
	require.Len(t, g.Transactions, 3)
	assert.Equal(t, "UBER TRIP", g.Transactions[0].Description)
	assert.Equal(t, day(10), g.Transactions[1].Date)
	assert.Equal(t, day(11), g.Transactions[2].Date)
	assert.Equal(t, DateRange{Start: day(2), End: day(11)}, g.DateRange)

	assert.True(t, logger.HasEntry("WARN", "Found transactions repeated across statements"))
	assert.True(t, logger.HasEntry("INFO", "Grouped statements by user"))
}

func TestSortChronologically(t *testing.T) {
	txs := []models.EnrichedTransaction{
		tx(day(2), "B", "10"),
		tx(day(1), "Z", "10"),
		tx(day(2), "A", "10"),
		tx(day(2), "C", "5"),
	}
	SortChronologically(txs)

	var order []string
	for _, x := range txs {
		order = append(order, x.Description)
	}
	assert.Equal(t, []string{"Z", "C", "A", "B"}, order)
}

func TestOutputFilename(t *testing.T) {
	assert.Equal(t, "u1_2024-05-01_2024-05-31.csv",
		OutputFilename(UserGroup{UserID: "u1", DateRange: DateRange{Start: day(1), End: day(31)}}))
	assert.Equal(t, "u1.csv", OutputFilename(UserGroup{UserID: "u1"}))
}

func TestSourceFileHeader(t *testing.T) {
	generated := time.Date(2024, time.June, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "# Consolidated from source files:\n"+
		"# - may.pdf\n"+
		"# - june.csv\n"+
		"# Generated on: 2024-06-01 09:30:00\n#\n",
		SourceFileHeader([]string{"/in/may.pdf", "june.csv"}, generated))
	assert.Equal(t, "", SourceFileHeader(nil, generated))
}
