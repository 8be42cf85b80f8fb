package betslip

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Market identifica o tipo de aposta de uma seleção
type Market string

const (
	Moneyline Market = "moneyline"
	Spread    Market = "spread"
	OverUnder Market = "overUnder"
)

// Valid informa se o mercado é conhecido
func (m Market) Valid() bool {
	switch m {
	case Moneyline, Spread, OverUnder:
		return true
	}
	return false
}

// needsLine: spread e total exigem linha; moneyline não tem
func (m Market) needsLine() bool { return m == Spread || m == OverUnder }

// ErrInvalidSelection indica uma seleção incompleta ou incoerente
var ErrInvalidSelection = errors.New("invalid selection")

// Selection é uma aposta candidata escolhida no quadro de odds.
// Odds são sempre decimais (multiplicador de retorno por unidade apostada).
type Selection struct {
	ID       string           `json:"id"`
	GameID   string           `json:"gameId,omitempty"`
	Market   Market           `json:"market"`
	HomeTeam string           `json:"homeTeam,omitempty"`
	AwayTeam string           `json:"awayTeam,omitempty"`
	Side     string           `json:"side"`
	Odds     decimal.Decimal  `json:"odds"`
	Line     *decimal.Decimal `json:"line,omitempty"`
}

// Validate garante que mercado, lado e odd chegam juntos e coerentes
func (s Selection) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidSelection)
	}
	if !s.Market.Valid() {
		return fmt.Errorf("%w: unknown market %q", ErrInvalidSelection, s.Market)
	}
	if s.Side == "" {
		return fmt.Errorf("%w: empty side", ErrInvalidSelection)
	}
	if s.Odds.LessThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: odds %s must be greater than 1", ErrInvalidSelection, s.Odds)
	}
	if s.Market.needsLine() && s.Line == nil {
		return fmt.Errorf("%w: %s requires a line", ErrInvalidSelection, s.Market)
	}
	if !s.Market.needsLine() && s.Line != nil {
		return fmt.Errorf("%w: %s takes no line", ErrInvalidSelection, s.Market)
	}
	return nil
}

// Describe monta o texto curto exibido no cupom ("Lakers to win", "Celtics +3.5", "Over 219.5")
func Describe(s Selection) string {
	switch s.Market {
	case Moneyline:
		return s.Side + " to win"
	case Spread:
		if s.Line == nil {
			return s.Side
		}
		sign := ""
		if s.Line.IsPositive() {
			sign = "+"
		}
		return s.Side + " " + sign + s.Line.String()
	case OverUnder:
		side := s.Side
		if side != "" {
			side = strings.ToUpper(side[:1]) + side[1:]
		}
		if s.Line == nil {
			return side
		}
		return side + " " + s.Line.String()
	default:
		return s.Side
	}
}
