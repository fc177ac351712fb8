// Package format renders amounts and dates the way the FinanceFlow screens
// show them: Brazilian real with pt-BR separators.
package format

import (
	"strings"
	"time"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the day/month/year layout used for transaction dates.
const DateLayout = "02/01/2006"

// BRL formats v as "R$ 1.234,56". Values are rounded half away from zero to
// two places; negatives render as "-R$ 12,00".
func BRL(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	return sign + "R$ " + groupThousands(intPart) + "," + frac
}

// SignedBRL formats a transaction amount with "+" for income and "-" for
// expenses. The stored amount is a magnitude.
func SignedBRL(tx domain.Transaction) string {
	prefix := "+ "
	if tx.IsExpense() {
		prefix = "- "
	}
	return prefix + BRL(tx.Amount)
}

// Date formats t as dd/mm/yyyy in t's own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
