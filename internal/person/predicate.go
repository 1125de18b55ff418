package person

import (
	"strconv"
	"strings"

	"github.com/deppfellow/peopledb/internal/errs"
)

// Operator is a comparison accepted in a Predicate.
type Operator string

const (
	Less     Operator = "<"
	Greater  Operator = ">"
	NotEqual Operator = "<>"
)

// Operators lists every accepted operator.
var Operators = []Operator{Less, Greater, NotEqual}

// ColumnKind tells how a predicate value is bound for a column.
type ColumnKind int

const (
	TextColumn ColumnKind = iota
	IntegerColumn
)

// Columns maps every people column to its kind. Column names are
// interpolated into statements, so only these are accepted.
var Columns = map[string]ColumnKind{
	"id":         IntegerColumn,
	"name":       TextColumn,
	"surname":    TextColumn,
	"birth_date": TextColumn,
	"gender":     IntegerColumn,
	"birth_city": TextColumn,
}

// Predicate is a checked "field operator value" condition.
type Predicate struct {
	Field    string
	Operator Operator
	Value    string

	// Arg is Value converted for binding: int64 for integer columns,
	// the string itself otherwise.
	Arg any
}

// NewPredicate checks field, operator and value together and reports every
// violation at once as an *errs.ValidationError.
func NewPredicate(field, value, operator string) (Predicate, error) {
	var violations []errs.FieldError

	op := Operator(operator)
	if !op.Valid() {
		violations = append(violations, errs.FieldError{
			Field: "operator",
			Error: "operator must be one of " + operatorList(),
		})
	}

	p := Predicate{Field: field, Operator: op, Value: value, Arg: value}

	kind, ok := Columns[field]
	switch {
	case !ok:
		violations = append(violations, errs.FieldError{
			Field: "field",
			Error: "field must be one of id, name, surname, birth_date, gender, birth_city",
		})
	case kind == IntegerColumn:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			violations = append(violations, errs.FieldError{
				Field: "value",
				Error: "value must be an integer when comparing " + field,
			})
		}
		p.Arg = n
	}

	if len(violations) > 0 {
		return Predicate{}, errs.NewValidationError(violations...)
	}
	return p, nil
}

// Valid reports whether op is one of Operators.
func (op Operator) Valid() bool {
	for _, allowed := range Operators {
		if op == allowed {
			return true
		}
	}
	return false
}

func (p Predicate) String() string {
	return p.Field + " " + string(p.Operator) + " " + p.Value
}

func operatorList() string {
	parts := make([]string, len(Operators))
	for i, op := range Operators {
		parts[i] = string(op)
	}
	return strings.Join(parts, ", ")
}
