// Package form turns raw entry form input into ledger entries.
package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/go-playground/validator/v10"
)

// Defaults preselected by the entry form.
const (
	DefaultType     = domain.TransactionTypeExpense
	DefaultCategory = domain.CategoryFood
)

// Amount is the raw amount field. It decodes from either a JSON number or a
// JSON string.
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a number or a string: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// EntryForm is the user's input before validation.
type EntryForm struct {
	Description string `json:"description" csv:"description"`
	Amount      Amount `json:"amount" csv:"amount"`
	Type        string `json:"type" csv:"type"`
	Category    string `json:"category" csv:"category"`
}

// ValidationError lists every rejected field with a human readable reason.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid entry: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// entry is the parsed form checked by the validator.
type entry struct {
	Description string  `validate:"required"`
	Amount      float64 `validate:"finite"`
	Type        string  `validate:"transaction_type"`
	Category    string  `validate:"category"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("finite", validateFinite)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("category", validateCategory)
	return v
}

func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return domain.TransactionType(fl.Field().String()).Valid()
}

func validateCategory(fl validator.FieldLevel) bool {
	return domain.Category(fl.Field().String()).Valid()
}

var fieldMessages = map[string]string{
	"required":         "must not be empty",
	"finite":           "must be a finite number",
	"transaction_type": "must be INCOME or EXPENSE",
	"category":         "is not a known category",
}

var fieldNames = map[string]string{
	"Description": "description",
	"Amount":      "amount",
	"Type":        "type",
	"Category":    "category",
}

// Parse validates the form and returns the entry to add. The description is
// trimmed; a blank type or category takes the form default.
func (f EntryForm) Parse() (domain.Entry, error) {
	fields := map[string]string{}

	e := entry{
		Description: strings.TrimSpace(f.Description),
		Type:        strings.TrimSpace(f.Type),
		Category:    strings.TrimSpace(f.Category),
	}
	if e.Type == "" {
		e.Type = string(DefaultType)
	}
	if e.Category == "" {
		e.Category = string(DefaultCategory)
	}

	raw := strings.TrimSpace(string(f.Amount))
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields["amount"] = "must be a number"
	} else {
		e.Amount = amount
	}

	if err := validate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.Entry{}, fmt.Errorf("Parse: validate entry: %w", err)
		}
		for _, fe := range verrs {
			name := fieldNames[fe.StructField()]
			if _, seen := fields[name]; seen {
				continue
			}
			fields[name] = fieldMessages[fe.Tag()]
		}
	}

	if len(fields) > 0 {
		return domain.Entry{}, &ValidationError{Fields: fields}
	}

	return domain.Entry{
		Description: e.Description,
		Amount:      e.Amount,
		Type:        domain.TransactionType(e.Type),
		Category:    domain.Category(e.Category),
	}, nil
}
