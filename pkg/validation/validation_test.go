package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ExternalID string   `json:"externalId" validate:"required"`
	Lines      []string `json:"lines" validate:"min=1"`
	Memo       string   `json:"memo"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(sample{ExternalID: "JE-1", Lines: []string{"a"}}))

	err := Struct(sample{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "externalId is a required field")
	assert.Contains(t, err.Error(), "lines must contain at least 1 item")
}

func TestFields(t *testing.T) {
	assert.Nil(t, Fields(sample{ExternalID: "JE-1", Lines: []string{"a"}}))
	assert.ElementsMatch(t, []string{"externalId", "lines"}, Fields(sample{}))
}
