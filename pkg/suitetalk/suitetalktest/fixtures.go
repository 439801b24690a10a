package suitetalktest

import (
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// Transaction builds a record of the given sub-kind for the Transaction
// container. modified is an RFC 3339 timestamp.
func Transaction(kind, internalID, modified string) suitetalk.Record {
	return suitetalk.Record{
		"internalId":       internalID,
		"recordType":       kind,
		"lastModifiedDate": modified,
	}
}

// Entity builds a record for a directly searched type.
func Entity(internalID, modified string) suitetalk.Record {
	return suitetalk.Record{
		"internalId":       internalID,
		"lastModifiedDate": modified,
	}
}

// JournalEntry builds a minimal postable journal entry record.
func JournalEntry(externalID string) suitetalk.Record {
	return suitetalk.Record{
		"externalId": externalID,
		"currency":   map[string]any{"internalId": "1", "name": "USD"},
		"lineList": []any{
			map[string]any{
				"account": map[string]any{"internalId": "100"},
				"debit":   "125.50",
				"memo":    "accrual",
			},
			map[string]any{
				"account": map[string]any{"internalId": "200"},
				"credit":  "125.50",
			},
		},
	}
}
