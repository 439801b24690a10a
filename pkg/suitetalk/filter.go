package suitetalk

import (
	"fmt"
	"strings"
	"time"
)

// Operator is a search field operator.
type Operator string

// Operators understood by every Session.
const (
	OperatorIs       Operator = "is"
	OperatorContains Operator = "contains"
	OperatorAnyOf    Operator = "anyOf"
	OperatorAfter    Operator = "after"
)

// Filter is one predicate of a basic search.
type Filter interface {
	FieldName() string
	Op() Operator
	String() string
}

// StringFilter matches a string field.
type StringFilter struct {
	Field    string
	Operator Operator
	Values   []string
}

// FieldName implements Filter.
func (f StringFilter) FieldName() string { return f.Field }

// Op implements Filter.
func (f StringFilter) Op() Operator { return f.Operator }

func (f StringFilter) String() string {
	return fmt.Sprintf("%s %s [%s]", f.Field, f.Operator, strings.Join(f.Values, ","))
}

// Match reports whether value satisfies the filter.
func (f StringFilter) Match(value string) bool {
	for _, want := range f.Values {
		switch f.Operator {
		case OperatorContains:
			if strings.Contains(strings.ToLower(value), strings.ToLower(want)) {
				return true
			}
		case OperatorIs, OperatorAnyOf:
			if strings.EqualFold(value, want) {
				return true
			}
		}
	}
	return false
}

// DateFilter matches a date field.
type DateFilter struct {
	Field    string
	Operator Operator
	Value    time.Time
}

// FieldName implements Filter.
func (f DateFilter) FieldName() string { return f.Field }

// Op implements Filter.
func (f DateFilter) Op() Operator { return f.Operator }

func (f DateFilter) String() string {
	return fmt.Sprintf("%s %s %s", f.Field, f.Operator, f.Value.UTC().Format(time.RFC3339))
}

// Match reports whether t satisfies the filter.
func (f DateFilter) Match(t time.Time) bool {
	switch f.Operator {
	case OperatorAfter:
		return t.After(f.Value)
	case OperatorIs:
		return t.Equal(f.Value)
	}
	return false
}

// Contains builds a contains predicate on a string field.
func Contains(field, value string) StringFilter {
	return StringFilter{Field: field, Operator: OperatorContains, Values: []string{value}}
}

// Is builds an equality predicate on a string field.
func Is(field, value string) StringFilter {
	return StringFilter{Field: field, Operator: OperatorIs, Values: []string{value}}
}

// AnyOf builds a membership predicate on a string field.
func AnyOf(field string, values ...string) StringFilter {
	return StringFilter{Field: field, Operator: OperatorAnyOf, Values: values}
}

// After builds a strictly-after predicate on a date field.
func After(field string, t time.Time) DateFilter {
	return DateFilter{Field: field, Operator: OperatorAfter, Value: t}
}
