package suitetalk

import (
	"github.com/shopspring/decimal"
)

// Custom field kinds as declared on generic custom field input.
const (
	CustomFieldString = "String"
	CustomFieldSelect = "Select"
)

// RecordRef references another record by internal id, external id or name.
type RecordRef struct {
	InternalID string `json:"internalId,omitempty"`
	ExternalID string `json:"externalId,omitempty"`
	Name       string `json:"name,omitempty"`
	Type       string `json:"type,omitempty"`
}

// IsZero reports whether the reference identifies nothing.
func (r RecordRef) IsZero() bool {
	return r.InternalID == "" && r.ExternalID == "" && r.Name == ""
}

// CustomFieldRef is a typed custom field value ready for write-back.
type CustomFieldRef interface {
	Kind() string
	Key() string
}

// StringCustomFieldRef carries a literal string value.
type StringCustomFieldRef struct {
	ScriptID   string `json:"scriptId,omitempty"`
	InternalID string `json:"internalId,omitempty"`
	Value      string `json:"value"`
}

// Kind implements CustomFieldRef.
func (StringCustomFieldRef) Kind() string { return CustomFieldString }

// Key returns the script id, falling back to the internal id.
func (f StringCustomFieldRef) Key() string { return firstNonEmpty(f.ScriptID, f.InternalID) }

// SelectCustomFieldRef carries a reference to a list or record value.
type SelectCustomFieldRef struct {
	ScriptID   string    `json:"scriptId,omitempty"`
	InternalID string    `json:"internalId,omitempty"`
	Value      RecordRef `json:"value"`
}

// Kind implements CustomFieldRef.
func (SelectCustomFieldRef) Kind() string { return CustomFieldSelect }

// Key returns the script id, falling back to the internal id.
func (f SelectCustomFieldRef) Key() string { return firstNonEmpty(f.ScriptID, f.InternalID) }

// JournalEntryLine is one debit or credit line of a journal entry.
type JournalEntryLine struct {
	Account         *RecordRef       `json:"account,omitempty"`
	Debit           *decimal.Decimal `json:"debit,omitempty"`
	Credit          *decimal.Decimal `json:"credit,omitempty"`
	Memo            string           `json:"memo,omitempty"`
	Entity          *RecordRef       `json:"entity,omitempty"`
	Department      *RecordRef       `json:"department,omitempty"`
	Class           *RecordRef       `json:"class,omitempty"`
	Location        *RecordRef       `json:"location,omitempty"`
	CustomFieldList []CustomFieldRef `json:"customFieldList,omitempty"`
}

// JournalEntry is the write-back form of a journal entry.
type JournalEntry struct {
	ExternalID string             `json:"externalId"`
	Currency   RecordRef          `json:"currency"`
	LineList   []JournalEntryLine `json:"lineList"`
	Memo       string             `json:"memo,omitempty"`
	TranDate   string             `json:"tranDate,omitempty"`
	TranID     string             `json:"tranId,omitempty"`
	Subsidiary *RecordRef         `json:"subsidiary,omitempty"`
	Class      *RecordRef         `json:"class,omitempty"`
	Location   *RecordRef         `json:"location,omitempty"`
	Department *RecordRef         `json:"department,omitempty"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
