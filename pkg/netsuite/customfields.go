package netsuite

import (
	"bytes"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

// CustomField is the generic form of a custom field on an incoming record.
type CustomField struct {
	Type       string `json:"type"`
	ScriptID   string `json:"scriptId,omitempty"`
	InternalID string `json:"internalId,omitempty"`
	Value      string `json:"value"`
}

// UnmarshalJSON accepts numeric and boolean values as their literal text.
func (f *CustomField) UnmarshalJSON(data []byte) error {
	type plain CustomField
	var raw struct {
		plain
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = CustomField(raw.plain)

	v := bytes.TrimSpace(raw.Value)
	switch {
	case len(v) == 0 || bytes.Equal(v, []byte("null")):
		f.Value = ""
	case v[0] == '"':
		return json.Unmarshal(v, &f.Value)
	default:
		f.Value = string(v)
	}
	return nil
}

// TranslateCustomFields converts generic custom fields into typed refs.
// String fields become scalar refs and Select fields become refs wrapping a
// record reference by internal id. Fields of any other kind are logged and
// returned in skipped so a caller can reject them.
func TranslateCustomFields(fields []CustomField, log *zap.Logger) (refs []suitetalk.CustomFieldRef, skipped []CustomField) {
	if len(fields) == 0 {
		return nil, nil
	}

	refs = make([]suitetalk.CustomFieldRef, 0, len(fields))
	for _, f := range fields {
		switch f.Type {
		case suitetalk.CustomFieldString:
			refs = append(refs, suitetalk.StringCustomFieldRef{
				ScriptID:   f.ScriptID,
				InternalID: f.InternalID,
				Value:      f.Value,
			})
		case suitetalk.CustomFieldSelect:
			refs = append(refs, suitetalk.SelectCustomFieldRef{
				ScriptID:   f.ScriptID,
				InternalID: f.InternalID,
				Value:      suitetalk.RecordRef{InternalID: f.Value},
			})
		default:
			if log != nil {
				log.Warn("skipping custom field of unsupported kind",
					zap.String("kind", f.Type),
					zap.String("script_id", f.ScriptID),
					zap.String("internal_id", f.InternalID))
			}
			skipped = append(skipped, f)
		}
	}
	return refs, skipped
}
