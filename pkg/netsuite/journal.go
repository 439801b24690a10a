package netsuite

import (
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
	"github.com/ajitpratap0/tap-netsuite/pkg/validation"
)

// journalEntryInput is the record shape accepted by Post on journal streams.
type journalEntryInput struct {
	ExternalID string               `json:"externalId" validate:"required"`
	Currency   *suitetalk.RecordRef `json:"currency" validate:"required"`
	LineList   []journalEntryLineIn `json:"lineList" validate:"min=1,dive"`
	Memo       string               `json:"memo"`
	TranDate   string               `json:"tranDate"`
	TranID     string               `json:"tranId"`
	Subsidiary *suitetalk.RecordRef `json:"subsidiary"`
	Class      *suitetalk.RecordRef `json:"class"`
	Location   *suitetalk.RecordRef `json:"location"`
	Department *suitetalk.RecordRef `json:"department"`
}

type journalEntryLineIn struct {
	Account         *suitetalk.RecordRef `json:"account"`
	Debit           *decimal.Decimal     `json:"debit"`
	Credit          *decimal.Decimal     `json:"credit"`
	Memo            string               `json:"memo"`
	Entity          *suitetalk.RecordRef `json:"entity"`
	Department      *suitetalk.RecordRef `json:"department"`
	Class           *suitetalk.RecordRef `json:"class"`
	Location        *suitetalk.RecordRef `json:"location"`
	CustomFieldList []CustomField        `json:"customFieldList"`
}

// buildJournalEntry validates rec and converts it to its write-back form.
func buildJournalEntry(rec suitetalk.Record, log *zap.Logger) (*suitetalk.JournalEntry, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "encoding journal entry record")
	}
	var in journalEntryInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "malformed journal entry record")
	}

	if in.ExternalID == "" {
		return nil, errors.New(errors.ErrorTypeValidation, "missing external id")
	}
	if err := validation.Struct(in); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, "invalid journal entry").
			WithDetail("external_id", in.ExternalID).
			WithDetail("fields", validation.Fields(in))
	}
	if in.Currency.IsZero() {
		return nil, errors.New(errors.ErrorTypeValidation, "currency reference is empty").
			WithDetail("external_id", in.ExternalID)
	}

	je := &suitetalk.JournalEntry{
		ExternalID: in.ExternalID,
		Currency:   *in.Currency,
		LineList:   make([]suitetalk.JournalEntryLine, 0, len(in.LineList)),
		Memo:       in.Memo,
		TranDate:   in.TranDate,
		TranID:     in.TranID,
		Subsidiary: in.Subsidiary,
		Class:      in.Class,
		Location:   in.Location,
		Department: in.Department,
	}
	for _, line := range in.LineList {
		refs, _ := TranslateCustomFields(line.CustomFieldList, log)
		je.LineList = append(je.LineList, suitetalk.JournalEntryLine{
			Account:         line.Account,
			Debit:           line.Debit,
			Credit:          line.Credit,
			Memo:            line.Memo,
			Entity:          line.Entity,
			Department:      line.Department,
			Class:           line.Class,
			Location:        line.Location,
			CustomFieldList: refs,
		})
	}
	return je, nil
}

// Totals returns the summed debits and credits of a journal entry.
func Totals(je *suitetalk.JournalEntry) (debit, credit decimal.Decimal) {
	for _, line := range je.LineList {
		if line.Debit != nil {
			debit = debit.Add(*line.Debit)
		}
		if line.Credit != nil {
			credit = credit.Add(*line.Credit)
		}
	}
	return debit, credit
}
