package rest

import (
	"strings"
	"time"

	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

const suiteQLTimestamp = "2006-01-02 15:04:05"

// columnAliases maps SuiteQL's lower-case column names back to the record
// field names the rest of the tap uses.
var columnAliases = map[string]string{
	"id":               "internalId",
	"externalid":       "externalId",
	"lastmodifieddate": "lastModifiedDate",
	"recordtype":       "recordType",
	"trandate":         "tranDate",
	"tranid":           "tranId",
	"datecreated":      "dateCreated",
}

// RenderSuiteQL renders a search request as a SuiteQL statement. The table
// is the search type; rows are ordered by id so offset paging is stable.
func RenderSuiteQL(req suitetalk.SearchRequest) (string, error) {
	if req.SearchType == "" {
		return "", errors.New(errors.ErrorTypeValidation, "search type is empty")
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(strings.ToLower(req.SearchType))

	for i, f := range req.Filters {
		clause, err := renderFilter(f)
		if err != nil {
			return "", err
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(clause)
	}
	b.WriteString(" ORDER BY id")
	return b.String(), nil
}

func renderFilter(f suitetalk.Filter) (string, error) {
	col := strings.ToLower(f.FieldName())

	switch v := f.(type) {
	case suitetalk.StringFilter:
		if len(v.Values) == 0 {
			return "", errors.Newf(errors.ErrorTypeValidation, "filter on %s has no values", v.Field)
		}
		switch v.Operator {
		case suitetalk.OperatorContains:
			return "LOWER(" + col + ") LIKE " + quote("%"+strings.ToLower(v.Values[0])+"%"), nil
		case suitetalk.OperatorIs:
			// SuiteQL stores recordtype in lower case; match the way Match does.
			return "LOWER(" + col + ") = " + quote(strings.ToLower(v.Values[0])), nil
		case suitetalk.OperatorAnyOf:
			quoted := make([]string, len(v.Values))
			for i, val := range v.Values {
				quoted[i] = quote(val)
			}
			return col + " IN (" + strings.Join(quoted, ", ") + ")", nil
		}
	case suitetalk.DateFilter:
		ts := "TO_TIMESTAMP(" + quote(v.Value.UTC().Format(suiteQLTimestamp)) + ", 'YYYY-MM-DD HH24:MI:SS')"
		switch v.Operator {
		case suitetalk.OperatorAfter:
			return col + " > " + ts, nil
		case suitetalk.OperatorIs:
			return col + " = " + ts, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeValidation, "unsupported filter %s", f)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// normalize renames well-known columns, drops hypermedia links and
// rewrites lastModifiedDate as RFC 3339 so watermarks compare cleanly.
func normalize(rec suitetalk.Record) suitetalk.Record {
	delete(rec, "links")
	for from, to := range columnAliases {
		if v, ok := rec[from]; ok {
			delete(rec, from)
			rec[to] = v
		}
	}
	if s := rec.Field("lastModifiedDate"); s != "" {
		if t, ok := parseTimestamp(s); ok {
			rec["lastModifiedDate"] = t.UTC().Format(time.RFC3339)
		}
	}
	return rec
}

// parseTimestamp accepts the timestamp layouts the REST API returns.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.000Z07:00", suiteQLTimestamp, "1/2/2006 3:04 pm", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
