package oddsmath

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidOdds indica uma cotação que não pode ser convertida
var ErrInvalidOdds = errors.New("invalid odds")

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// AmericanToDecimal converte cotação americana (+150, -110) em decimal (2.5, 1.9091)
// Valores entre -100 e +100 (exclusive) não existem no formato americano
func AmericanToDecimal(american int) (decimal.Decimal, error) {
	a := decimal.NewFromInt(int64(american))
	switch {
	case american >= 100:
		return one.Add(a.Div(hundred)), nil
	case american <= -100:
		return one.Add(hundred.Div(a.Neg())), nil
	default:
		return decimal.Zero, ErrInvalidOdds
	}
}

// DecimalToAmerican faz o caminho inverso, arredondando para o inteiro mais próximo
func DecimalToAmerican(d decimal.Decimal) (int, error) {
	if d.LessThanOrEqual(one) {
		return 0, ErrInvalidOdds
	}
	profit := d.Sub(one)
	if d.GreaterThanOrEqual(decimal.NewFromInt(2)) {
		return int(profit.Mul(hundred).Round(0).IntPart()), nil
	}
	return int(hundred.Div(profit).Neg().Round(0).IntPart()), nil
}

// ParseAmount interpreta o valor digitado num campo de stake.
// Entrada inválida ou negativa vira zero, nunca erro.
// Frações abaixo do centavo são descartadas: a carteira só debita centavos inteiros.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return TruncateCents(d)
}

// TruncateCents corta o valor na segunda casa decimal (nunca arredonda para cima)
func TruncateCents(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(2)
}

// ToCents converte valor monetário em centavos (meio arredonda para longe do zero)
func ToCents(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromCents converte centavos em valor monetário
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
