// backend/src/processors/attributes.go
package processors

import (
	"strings"

	"github.com/username/corpinsights/backend/src/models"
)

// Deal attributes arrive as a list-encoded cell. The accepted grammar is
//
//	'[' token (',' token)* ']'
//
// where each token may be wrapped in double quotes and surrounding whitespace
// is ignored. "[]" is the empty list. Anything else is an AttributeParseError;
// the grammar is validated rather than approximated with generic stripping.

// ParseDealAttributes parses a list-encoded deal-attribute cell into its
// individual tokens, unquoted.
func ParseDealAttributes(cell string) ([]string, error) {
	trimmed := strings.TrimSpace(cell)
	if len(trimmed) < 2 || !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, &AttributeParseError{Cell: cell, Reason: "expected a [...] list"}
	}

	inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if inner == "" {
		return nil, nil
	}

	parts := strings.Split(inner, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if strings.HasPrefix(token, `"`) || strings.HasSuffix(token, `"`) {
			if len(token) < 2 || !strings.HasPrefix(token, `"`) || !strings.HasSuffix(token, `"`) {
				return nil, &AttributeParseError{Cell: cell, Reason: "unbalanced quotes in token " + token}
			}
			token = token[1 : len(token)-1]
		}
		if token == "" {
			return nil, &AttributeParseError{Cell: cell, Reason: "empty token"}
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// ExplodeByAttribute emits one record per attribute token, with every other
// field copied from the source record. The result is an aggregation-time view
// and is never written back to the normalized table.
func ExplodeByAttribute(records []models.NormalizedRecord) ([]models.NormalizedRecord, error) {
	exploded := make([]models.NormalizedRecord, 0, len(records))
	for _, rec := range records {
		tokens, err := ParseDealAttributes(rec.DealAttributes)
		if err != nil {
			return nil, err
		}
		for _, token := range tokens {
			row := rec
			row.DealAttributes = token
			exploded = append(exploded, row)
		}
	}
	return exploded, nil
}
