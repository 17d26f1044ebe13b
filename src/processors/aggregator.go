// backend/src/processors/aggregator.go
package processors

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/username/corpinsights/backend/src/models"
)

// Aggregator computes per-group summary statistics over a normalized table.
// Each call is independent and stateless given its input.
type Aggregator struct{}

func NewAggregator() *Aggregator { return &Aggregator{} }

// Aggregate partitions the records by the given dimension and computes count,
// mean, sample standard deviation, min and max of the transaction amount for
// each group. labels carries six display names: the group-key column followed
// by the five statistic columns, in that fixed order.
//
// For the deal-attribute dimension the records are exploded first, one row
// per attribute token. For the month dimension the group key is the month
// number parsed from the declared date, and rows come back in calendar order.
func (a *Aggregator) Aggregate(records []models.NormalizedRecord, key models.GroupKey, labels []string) (*models.SummaryTable, error) {
	if len(labels) != 6 {
		return nil, fmt.Errorf("aggregate: expected 6 display labels, got %d", len(labels))
	}

	groups := make(map[string][]float64)
	switch key {
	case models.GroupByGeography:
		for _, rec := range records {
			groups[rec.GeographicalRegion] = append(groups[rec.GeographicalRegion], rec.TransactionAmount)
		}
	case models.GroupByMonth:
		for _, rec := range records {
			month, err := monthOf(rec.DeclaredDate)
			if err != nil {
				return nil, err
			}
			// Zero-padded so the lexicographic sort below is chronological.
			k := fmt.Sprintf("%02d", month)
			groups[k] = append(groups[k], rec.TransactionAmount)
		}
	case models.GroupByDealAttribute:
		exploded, err := ExplodeByAttribute(records)
		if err != nil {
			return nil, err
		}
		for _, rec := range exploded {
			groups[rec.DealAttributes] = append(groups[rec.DealAttributes], rec.TransactionAmount)
		}
	default:
		return nil, &InvalidGroupKeyError{Key: string(key)}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := &models.SummaryTable{
		KeyLabel: labels[0],
		Rows:     make([]models.SummaryRow, 0, len(keys)),
	}
	copy(table.Columns[:], labels[1:])

	for _, k := range keys {
		table.Rows = append(table.Rows, summarize(displayLabel(key, k), groups[k]))
	}
	return table, nil
}

// monthOf extracts the month component from a YYYY-MM-DD date string.
func monthOf(date string) (int, error) {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return 0, &DateFormatError{Value: date}
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, &DateFormatError{Value: date}
	}
	return month, nil
}

// displayLabel converts an internal group key to its display form: month
// numbers become calendar names and deal-attribute tokens are de-quoted with
// underscores replaced by spaces. Geography labels are used as-is.
func displayLabel(key models.GroupKey, groupKey string) string {
	switch key {
	case models.GroupByMonth:
		month, _ := strconv.Atoi(groupKey)
		return time.Month(month).String()
	case models.GroupByDealAttribute:
		return strings.ReplaceAll(strings.Trim(groupKey, `"`), "_", " ")
	default:
		return groupKey
	}
}

// summarize computes the statistic row for one group. A group always has at
// least one member because it derives from existing rows; the sample standard
// deviation is undefined for a singleton group and is displayed as "0.00".
func summarize(label string, amounts []float64) models.SummaryRow {
	count := len(amounts)
	sum := 0.0
	minAmount, maxAmount := amounts[0], amounts[0]
	for _, v := range amounts {
		sum += v
		if v < minAmount {
			minAmount = v
		}
		if v > maxAmount {
			maxAmount = v
		}
	}
	mean := sum / float64(count)

	stddev := 0.0
	if count > 1 {
		var squares float64
		for _, v := range amounts {
			d := v - mean
			squares += d * d
		}
		stddev = math.Sqrt(squares / float64(count-1))
	}

	return models.SummaryRow{
		Label:  label,
		Count:  count,
		Mean:   formatAmount(mean),
		StdDev: formatAmount(stddev),
		Min:    formatAmount(minAmount),
		Max:    formatAmount(maxAmount),
	}
}

// formatAmount renders a statistic as a fixed two-decimal display string.
func formatAmount(v float64) string {
	return strconv.FormatFloat(roundTo(v, 2), 'f', 2, 64)
}
