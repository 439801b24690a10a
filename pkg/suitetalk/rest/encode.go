package rest

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// encodeBody renders an upsert body. Journal entries are converted to the
// REST record shape; anything else is marshalled as is.
func encodeBody(body any) ([]byte, error) {
	switch je := body.(type) {
	case suitetalk.JournalEntry:
		return json.Marshal(journalEntryBody(je))
	case *suitetalk.JournalEntry:
		return json.Marshal(journalEntryBody(*je))
	default:
		return json.Marshal(body)
	}
}

func journalEntryBody(je suitetalk.JournalEntry) map[string]any {
	out := map[string]any{
		"externalId": je.ExternalID,
		"currency":   refBody(je.Currency),
	}
	setString(out, "memo", je.Memo)
	setString(out, "tranDate", je.TranDate)
	setString(out, "tranId", je.TranID)
	setRef(out, "subsidiary", je.Subsidiary)
	setRef(out, "class", je.Class)
	setRef(out, "location", je.Location)
	setRef(out, "department", je.Department)

	items := make([]map[string]any, 0, len(je.LineList))
	for _, line := range je.LineList {
		item := map[string]any{}
		setRef(item, "account", line.Account)
		setAmount(item, "debit", line.Debit)
		setAmount(item, "credit", line.Credit)
		setString(item, "memo", line.Memo)
		setRef(item, "entity", line.Entity)
		setRef(item, "department", line.Department)
		setRef(item, "class", line.Class)
		setRef(item, "location", line.Location)

		// custom fields are top-level keys named by script id
		for _, cf := range line.CustomFieldList {
			switch f := cf.(type) {
			case suitetalk.StringCustomFieldRef:
				item[f.Key()] = f.Value
			case suitetalk.SelectCustomFieldRef:
				item[f.Key()] = refBody(f.Value)
			}
		}
		items = append(items, item)
	}
	out["line"] = map[string]any{"items": items}
	return out
}

func refBody(r suitetalk.RecordRef) map[string]any {
	switch {
	case r.InternalID != "":
		return map[string]any{"id": r.InternalID}
	case r.ExternalID != "":
		return map[string]any{"externalId": r.ExternalID}
	default:
		return map[string]any{"refName": r.Name}
	}
}

func setRef(m map[string]any, key string, r *suitetalk.RecordRef) {
	if r != nil && !r.IsZero() {
		m[key] = refBody(*r)
	}
}

func setString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

// setAmount writes the exact decimal text as a JSON number
func setAmount(m map[string]any, key string, d *decimal.Decimal) {
	if d != nil {
		m[key] = json.RawMessage(d.String())
	}
}
