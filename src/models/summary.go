// backend/src/models/summary.go
package models

// GroupKey selects the dimension used to partition normalized records before
// computing statistics.
type GroupKey string

const (
	GroupByGeography     GroupKey = "geography"
	GroupByMonth         GroupKey = "month"
	GroupByDealAttribute GroupKey = "dealAttribute"
)

// SummaryRow holds the statistics for one distinct group-key value. The
// numeric statistics are presentation strings fixed to two decimal places;
// a group with fewer than two members reports a standard deviation of "0.00"
// so the presentation table has no blank cells.
type SummaryRow struct {
	Label  string `json:"label"`
	Count  int    `json:"count"`
	Mean   string `json:"mean"`
	StdDev string `json:"stddev"`
	Min    string `json:"min"`
	Max    string `json:"max"`
}

// SummaryTable is the final output for one grouping dimension: one row per
// group value, with the display headings supplied by the caller.
type SummaryTable struct {
	KeyLabel string       `json:"keyLabel"`
	Columns  [5]string    `json:"columns"`
	Rows     []SummaryRow `json:"rows"`
}
