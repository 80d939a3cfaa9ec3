package db

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultLimit caps the number of records a statement returns when no limit is set.
// It matches the default MAXSEARCHRESULTS of the search module.
const DefaultLimit = 10000

// FieldKind is the declared value type of a selected field.
// Drivers use it to decode the store's textual replies.
type FieldKind int

const (
	// FieldString is a string value.
	FieldString FieldKind = iota
	// FieldInt is an integer value.
	FieldInt
	// FieldFloat is a floating point value.
	FieldFloat
	// FieldObject is a nested JSON object.
	FieldObject
)

// Field is a selected document field.
type Field struct {
	Name string
	Kind FieldKind
}

// Filter restricts results to documents whose Field equals the value bound to Param.
// The value itself never appears in the statement text.
type Filter struct {
	Field string
	Param string
}

// Statement is a parameterized query against a secondary index.
type Statement struct {
	Index   string
	Fields  []Field
	Filters []Filter
	Params  map[string]string

	// KeyField, when set, receives the document key in every returned record.
	KeyField string
	// KeyPrefixes lists the key prefixes covered by Index. Backends without
	// secondary index support scan these prefixes instead.
	KeyPrefixes []string
	Limit       int
}

// FieldNames returns the selected field names in declaration order, KeyField last.
func (s *Statement) FieldNames() []string {
	names := make([]string, 0, len(s.Fields)+1)
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	if s.KeyField != "" {
		names = append(names, s.KeyField)
	}
	return names
}

// EffectiveLimit returns Limit, or DefaultLimit when unset.
func (s *Statement) EffectiveLimit() int {
	if s.Limit <= 0 {
		return DefaultLimit
	}
	return s.Limit
}

// Validate checks that the statement is well-formed and every filter is bound.
func (s *Statement) Validate() error {
	if s.Index == "" {
		return fmt.Errorf("%w: index is required", ErrInvalidStmt)
	}
	if !IsValidIdentifier(s.Index) {
		return fmt.Errorf("%w: index %q contains invalid characters", ErrInvalidStmt, s.Index)
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("%w: at least one field is required", ErrInvalidStmt)
	}

	seen := make(map[string]bool, len(s.Fields)+1)
	for _, f := range s.Fields {
		if !isName(f.Name) {
			return fmt.Errorf("%w: invalid field name %q", ErrInvalidStmt, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidStmt, f.Name)
		}
		seen[f.Name] = true
	}
	if s.KeyField != "" {
		if !isName(s.KeyField) {
			return fmt.Errorf("%w: invalid key field name %q", ErrInvalidStmt, s.KeyField)
		}
		if seen[s.KeyField] {
			return fmt.Errorf("%w: key field %q collides with a selected field", ErrInvalidStmt, s.KeyField)
		}
	}

	for _, f := range s.Filters {
		if !isName(f.Field) {
			return fmt.Errorf("%w: invalid filter field %q", ErrInvalidStmt, f.Field)
		}
		if !isName(f.Param) {
			return fmt.Errorf("%w: invalid parameter name %q", ErrInvalidStmt, f.Param)
		}
		if _, ok := s.Params[f.Param]; !ok {
			return fmt.Errorf("%w: parameter $%s is not bound", ErrInvalidStmt, f.Param)
		}
	}
	return nil
}

// String returns a debug representation of the statement. Parameter values are
// listed separately and never spliced into the WHERE clause.
func (s *Statement) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(s.FieldNames(), ", "))
	b.WriteString(" FROM ")
	b.WriteString(s.Index)
	if len(s.Filters) > 0 {
		conds := make([]string, len(s.Filters))
		for i, f := range s.Filters {
			conds[i] = fmt.Sprintf("@%s:{$%s}", f.Field, f.Param)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " "))
	}
	if len(s.Params) > 0 {
		names := make([]string, 0, len(s.Params))
		for name := range s.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString(" PARAMS ")
		b.WriteString(strings.Join(names, ", "))
	}
	return b.String()
}

// StatementBuilder is a fluent builder for statements.
type StatementBuilder struct {
	stmt Statement
}

// Select starts building a statement selecting the given fields.
func Select(fields ...Field) *StatementBuilder {
	return &StatementBuilder{
		stmt: Statement{
			Fields: append([]Field(nil), fields...),
			Params: make(map[string]string),
		},
	}
}

// From sets the index the statement runs against.
func (b *StatementBuilder) From(index string) *StatementBuilder {
	b.stmt.Index = index
	return b
}

// Where adds an equality filter on field and binds value to the named parameter.
func (b *StatementBuilder) Where(field, param, value string) *StatementBuilder {
	b.stmt.Filters = append(b.stmt.Filters, Filter{Field: field, Param: param})
	b.stmt.Params[param] = value
	return b
}

// KeyAs exposes the document key under the given field name.
func (b *StatementBuilder) KeyAs(name string) *StatementBuilder {
	b.stmt.KeyField = name
	return b
}

// ScanPrefix records the key prefixes covered by the index.
func (b *StatementBuilder) ScanPrefix(prefixes ...string) *StatementBuilder {
	b.stmt.KeyPrefixes = append(b.stmt.KeyPrefixes, prefixes...)
	return b
}

// Limit caps the number of returned records.
func (b *StatementBuilder) Limit(n int) *StatementBuilder {
	b.stmt.Limit = n
	return b
}

// Build validates and returns the statement.
func (b *StatementBuilder) Build() (*Statement, error) {
	if err := b.stmt.Validate(); err != nil {
		return nil, err
	}
	stmt := b.stmt
	return &stmt, nil
}

// isName returns true if s matches [a-zA-Z0-9_]+.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isAlpha && !isDigit && r != '_' {
			return false
		}
	}
	return true
}

