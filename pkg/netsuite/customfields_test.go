package netsuite

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/tap-netsuite/pkg/suitetalk"
)

func TestTranslateCustomFields(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	refs, skipped := TranslateCustomFields([]CustomField{
		{Type: "String", ScriptID: "custcol_vendor", Value: "ACME"},
		{Type: "Select", ScriptID: "custcol_region", InternalID: "7", Value: "42"},
		{Type: "Date", ScriptID: "custcol_when", Value: "2024-01-01"},
	}, zap.New(core))

	require.Len(t, refs, 2)
	assert.Equal(t, suitetalk.StringCustomFieldRef{ScriptID: "custcol_vendor", Value: "ACME"}, refs[0])
	assert.Equal(t, suitetalk.SelectCustomFieldRef{
		ScriptID:   "custcol_region",
		InternalID: "7",
		Value:      suitetalk.RecordRef{InternalID: "42"},
	}, refs[1])

	require.Len(t, skipped, 1)
	assert.Equal(t, "Date", skipped[0].Type)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Date", logs.All()[0].ContextMap()["kind"])
}

func TestTranslateCustomFields_SelectIsReferenceNotLiteral(t *testing.T) {
	refs, _ := TranslateCustomFields([]CustomField{{Type: "Select", ScriptID: "x", Value: "42"}}, nil)
	require.Len(t, refs, 1)

	sel, ok := refs[0].(suitetalk.SelectCustomFieldRef)
	require.True(t, ok)
	assert.Equal(t, "42", sel.Value.InternalID)
	assert.Equal(t, suitetalk.CustomFieldSelect, sel.Kind())
}

func TestTranslateCustomFields_Empty(t *testing.T) {
	refs, skipped := TranslateCustomFields(nil, nil)
	assert.Nil(t, refs)
	assert.Nil(t, skipped)
}

func TestCustomField_UnmarshalJSON(t *testing.T) {
	var fields []CustomField
	require.NoError(t, json.Unmarshal([]byte(`[
		{"type": "String", "scriptId": "a", "value": "ACME"},
		{"type": "Select", "scriptId": "b", "value": 42},
		{"type": "String", "scriptId": "c", "value": true},
		{"type": "String", "scriptId": "d", "value": null}
	]`), &fields))

	require.Len(t, fields, 4)
	assert.Equal(t, "ACME", fields[0].Value)
	assert.Equal(t, "42", fields[1].Value)
	assert.Equal(t, "true", fields[2].Value)
	assert.Equal(t, "", fields[3].Value)
	assert.Equal(t, "b", fields[1].ScriptID)
}
