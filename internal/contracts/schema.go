package contracts

import (
	"fmt"
	"math"
	"regexp"
)

// FieldType is the declared type of one column in an artifact schema.
type FieldType string

const (
	FieldTypeString    FieldType = "string"
	FieldTypeInteger   FieldType = "integer"
	FieldTypeFloat     FieldType = "float"
	FieldTypeBoolean   FieldType = "boolean"
	FieldTypeTimestamp FieldType = "timestamp"
)

// FieldSchema declares the validation rules for one column.
type FieldSchema struct {
	Type        FieldType
	Required    bool
	Nullable    bool
	Unique      bool
	Pattern     string
	MinValue    *float64
	MaxValue    *float64
	Enum        []string
	Description string
}

// Schema declares the full set of columns for one artifact table.
type Schema struct {
	Name    string
	Version string
	Fields  map[string]FieldSchema
}

// Row is one record being validated against a Schema; values keyed by field name.
type Row map[string]interface{}

// ValidationError reports a single field failure, anchored to the offending row.
type ValidationError struct {
	RowIndex int
	Field    string
	Value    interface{}
	Rule     string
	Message  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d field %q: %s (value=%v, rule=%s)", e.RowIndex, e.Field, e.Message, e.Value, e.Rule)
}

// ValidationResult collects every failure found in a batch instead of
// stopping at the first one, so a contract violation report can show the
// first N offending rows per spec §4.12.
type ValidationResult struct {
	Schema string
	Valid  bool
	Errors []ValidationError
}

// FirstN returns at most n errors, for a row-level error report.
func (r *ValidationResult) FirstN(n int) []ValidationError {
	if len(r.Errors) <= n {
		return r.Errors
	}
	return r.Errors[:n]
}

// Validator checks rows against a fixed set of registered schemas plus the
// numeric range invariants called out explicitly in spec §4.12 (GTC, w, Q).
type Validator struct {
	schemas map[string]Schema
	cache   map[string]*regexp.Regexp
}

// NewValidator returns a validator with no schemas registered.
func NewValidator() *Validator {
	return &Validator{
		schemas: make(map[string]Schema),
		cache:   make(map[string]*regexp.Regexp),
	}
}

// Register adds a schema, replacing any prior schema of the same name.
func (v *Validator) Register(s Schema) error {
	if s.Name == "" {
		return fmt.Errorf("%w: schema name cannot be empty", ErrContractViolation)
	}
	for field, fs := range s.Fields {
		if fs.Pattern != "" {
			re, err := regexp.Compile(fs.Pattern)
			if err != nil {
				return fmt.Errorf("%w: schema %s field %s: bad pattern: %v", ErrContractViolation, s.Name, field, err)
			}
			v.cache[s.Name+"."+field] = re
		}
	}
	v.schemas[s.Name] = s
	return nil
}

// ValidateRows checks every row against the named schema, uniqueness across
// the whole batch included, and returns every failure found.
func (v *Validator) ValidateRows(schemaName string, rows []Row) (*ValidationResult, error) {
	s, ok := v.schemas[schemaName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown schema %q", ErrContractViolation, schemaName)
	}

	result := &ValidationResult{Schema: schemaName, Valid: true}
	seen := make(map[string]map[interface{}]bool, len(s.Fields))
	for field, fs := range s.Fields {
		if fs.Unique {
			seen[field] = make(map[interface{}]bool)
		}
	}

	for i, row := range rows {
		for field, fs := range s.Fields {
			val, present := row[field]
			if !present || val == nil {
				if fs.Required && !fs.Nullable {
					result.Valid = false
					result.Errors = append(result.Errors, ValidationError{i, field, nil, "required", "missing required field"})
				}
				continue
			}
			if err := v.validateField(schemaName, i, field, val, fs); err != nil {
				result.Valid = false
				result.Errors = append(result.Errors, *err)
			}
			if fs.Unique {
				if seen[field][val] {
					result.Valid = false
					result.Errors = append(result.Errors, ValidationError{i, field, val, "unique", "duplicate value for unique field"})
				}
				seen[field][val] = true
			}
		}
	}
	return result, nil
}

func (v *Validator) validateField(schemaName string, rowIdx int, field string, val interface{}, fs FieldSchema) *ValidationError {
	switch fs.Type {
	case FieldTypeString:
		s, ok := val.(string)
		if !ok {
			return &ValidationError{rowIdx, field, val, "type", "expected string"}
		}
		if fs.Pattern != "" {
			re := v.cache[schemaName+"."+field]
			if re != nil && !re.MatchString(s) {
				return &ValidationError{rowIdx, field, val, "pattern", "does not match pattern " + fs.Pattern}
			}
		}
		if len(fs.Enum) > 0 {
			ok := false
			for _, e := range fs.Enum {
				if e == s {
					ok = true
					break
				}
			}
			if !ok {
				return &ValidationError{rowIdx, field, val, "enum", "not one of allowed values"}
			}
		}
	case FieldTypeInteger, FieldTypeFloat:
		f, ok := asFloat(val)
		if !ok {
			return &ValidationError{rowIdx, field, val, "type", "expected numeric"}
		}
		if math.IsNaN(f) {
			return &ValidationError{rowIdx, field, val, "nan", "NaN not allowed outside sentinel 'unscored'"}
		}
		if fs.MinValue != nil && f < *fs.MinValue && !(math.IsInf(f, 1) && fs.MaxValue == nil) {
			return &ValidationError{rowIdx, field, val, "min", fmt.Sprintf("below minimum %v", *fs.MinValue)}
		}
		if fs.MaxValue != nil && f > *fs.MaxValue {
			return &ValidationError{rowIdx, field, val, "max", fmt.Sprintf("above maximum %v", *fs.MaxValue)}
		}
	case FieldTypeBoolean:
		if _, ok := val.(bool); !ok {
			return &ValidationError{rowIdx, field, val, "type", "expected boolean"}
		}
	case FieldTypeTimestamp:
		switch val.(type) {
		case string:
		default:
			return &ValidationError{rowIdx, field, val, "type", "expected timestamp string"}
		}
	}
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
