// backend/src/processors/attributes_test.go
package processors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/corpinsights/backend/src/models"
)

func TestParseDealAttributes(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		want    []string
		wantErr bool
	}{
		{"quoted tokens", `["TAKEOVER","MERGER"]`, []string{"TAKEOVER", "MERGER"}, false},
		{"unquoted tokens", `[TAKEOVER,MERGER]`, []string{"TAKEOVER", "MERGER"}, false},
		{"whitespace tolerated", `[ "TAKEOVER" , MERGER ]`, []string{"TAKEOVER", "MERGER"}, false},
		{"single token", `["COMPANY_TAKEOVER"]`, []string{"COMPANY_TAKEOVER"}, false},
		{"empty list", `[]`, nil, false},
		{"no brackets", `TAKEOVER`, nil, true},
		{"empty cell", ``, nil, true},
		{"unbalanced quote", `["TAKEOVER]`, nil, true},
		{"empty token", `["TAKEOVER",]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDealAttributes(tt.cell)
			if tt.wantErr {
				require.Error(t, err)
				var parseErr *AttributeParseError
				require.True(t, errors.As(err, &parseErr))
				assert.Equal(t, tt.cell, parseErr.Cell)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExplodeByAttribute(t *testing.T) {
	records := []models.NormalizedRecord{
		{
			CorpActionID:       "CA-1",
			DeclaredDate:       "2023-01-10",
			InfoSource:         "BLOOMBERG",
			DealAttributes:     `["TAKEOVER","MERGER"]`,
			TransactionAmount:  50,
			GeographicalRegion: "Canada",
		},
		{
			CorpActionID:      "CA-2",
			DeclaredDate:      "2023-02-11",
			InfoSource:        "REUTERS",
			DealAttributes:    `["SPINOFF"]`,
			TransactionAmount: 75,
		},
	}

	exploded, err := ExplodeByAttribute(records)
	require.NoError(t, err)

	// One extra row per additional token on a multi-valued source row.
	require.Len(t, exploded, 3)

	assert.Equal(t, "TAKEOVER", exploded[0].DealAttributes)
	assert.Equal(t, "MERGER", exploded[1].DealAttributes)
	assert.Equal(t, "SPINOFF", exploded[2].DealAttributes)

	// Every other field is copied unchanged from the source row.
	for _, rec := range exploded[:2] {
		assert.Equal(t, "CA-1", rec.CorpActionID)
		assert.Equal(t, 50.0, rec.TransactionAmount)
		assert.Equal(t, "Canada", rec.GeographicalRegion)
	}
}

func TestExplodeByAttributePropagatesParseError(t *testing.T) {
	_, err := ExplodeByAttribute([]models.NormalizedRecord{
		{CorpActionID: "CA-1", DealAttributes: "not a list"},
	})
	var parseErr *AttributeParseError
	require.True(t, errors.As(err, &parseErr))
}
