package betslip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
)

// Mode define como o cupom é apostado
type Mode string

const (
	Single Mode = "single"
	Parlay Mode = "parlay"
)

// ErrUnknownMode é retornado por ParseMode
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode converte texto em Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Single, Parlay:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ErrInadmissiblePlacement: stake zerada ou maior que o saldo.
// ErrNoStake e ErrInsufficientBalance detalham o motivo e satisfazem errors.Is com ela.
var ErrInadmissiblePlacement = errors.New("inadmissible placement")

type placementError struct{ reason string }

func (e placementError) Error() string        { return "inadmissible placement: " + e.reason }
func (e placementError) Is(target error) bool { return target == ErrInadmissiblePlacement }

var (
	ErrNoStake             error = placementError{reason: "no stake"}
	ErrInsufficientBalance error = placementError{reason: "stake exceeds balance"}
)

// Debiter é o dono do saldo: recebe o pedido de débito no momento da aposta.
// Se Debit falhar o cupom permanece intacto.
type Debiter interface {
	Debit(ctx context.Context, placementID string, amount decimal.Decimal) error
}

// DebiterFunc adapta uma função para Debiter
type DebiterFunc func(ctx context.Context, placementID string, amount decimal.Decimal) error

func (f DebiterFunc) Debit(ctx context.Context, placementID string, amount decimal.Decimal) error {
	return f(ctx, placementID, amount)
}

// Leg é uma seleção finalizada com a stake aplicada
type Leg struct {
	Selection Selection       `json:"selection"`
	Stake     decimal.Decimal `json:"stake"`
}

// Placement é o resultado de uma aposta aceita
type Placement struct {
	ID           string          `json:"id"`
	Mode         Mode            `json:"mode"`
	Legs         []Leg           `json:"legs"`
	TotalStake   decimal.Decimal `json:"totalStake"`
	PotentialWin decimal.Decimal `json:"potentialWin"`
	CombinedOdds decimal.Decimal `json:"combinedOdds"`
	PlacedAt     time.Time       `json:"placedAt"`
}

// Engine guarda o estado do cupom de uma sessão.
// Não é seguro para uso concorrente; o dono da sessão serializa o acesso.
type Engine struct {
	selections         []Selection
	mode               Mode
	stakes             map[string]decimal.Decimal
	parlayStake        decimal.Decimal
	defaultParlayStake decimal.Decimal
	// id da tentativa cujo débito falhou; reaproveitado enquanto o cupom não muda
	pendingID string
}

// Option configura o Engine
type Option func(*Engine)

// WithDefaultParlayStake define a stake de parlay inicial (e após cada aposta)
func WithDefaultParlayStake(amount decimal.Decimal) Option {
	return func(e *Engine) {
		if amount.IsNegative() {
			amount = decimal.Zero
		}
		e.defaultParlayStake = oddsmath.TruncateCents(amount)
	}
}

// New cria um cupom vazio em modo single
func New(opts ...Option) *Engine {
	e := &Engine{
		mode:   Single,
		stakes: make(map[string]decimal.Decimal),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.parlayStake = e.defaultParlayStake
	return e
}

func (e *Engine) indexOf(id string) int {
	for i := range e.selections {
		if e.selections[i].ID == id {
			return i
		}
	}
	return -1
}

// Toggle adiciona a seleção ou, se o id já estiver no cupom, remove.
// Retorna true quando a seleção foi adicionada. Stakes não são tocadas.
func (e *Engine) Toggle(sel Selection) (bool, error) {
	if i := e.indexOf(sel.ID); i >= 0 {
		e.removeAt(i)
		return false, nil
	}
	if err := sel.Validate(); err != nil {
		return false, err
	}
	e.selections = append(e.selections, sel)
	e.pendingID = ""
	return true, nil
}

// Remove retira a seleção; id ausente é no-op
func (e *Engine) Remove(id string) {
	if i := e.indexOf(id); i >= 0 {
		e.removeAt(i)
	}
}

func (e *Engine) removeAt(i int) {
	e.selections = append(e.selections[:i:i], e.selections[i+1:]...)
	e.pendingID = ""
}

// SetMode grava o modo; só tem efeito com mais de uma seleção
func (e *Engine) SetMode(m Mode) {
	if m != e.mode {
		e.pendingID = ""
	}
	e.mode = m
}

// Mode retorna o modo gravado
func (e *Engine) Mode() Mode { return e.mode }

// EffectiveMode é single sempre que o cupom tem 0 ou 1 seleção
func (e *Engine) EffectiveMode() Mode {
	if len(e.selections) <= 1 {
		return Single
	}
	return e.mode
}

// SetStake grava a stake de uma seleção; entrada inválida vira zero
func (e *Engine) SetStake(id, amount string) decimal.Decimal {
	v := oddsmath.ParseAmount(amount)
	if !v.Equal(e.stakes[id]) {
		e.pendingID = ""
	}
	e.stakes[id] = v
	return v
}

// SetParlayStake grava a stake do parlay com a mesma regra de SetStake
func (e *Engine) SetParlayStake(amount string) decimal.Decimal {
	v := oddsmath.ParseAmount(amount)
	if !v.Equal(e.parlayStake) {
		e.pendingID = ""
	}
	e.parlayStake = v
	return v
}

// Selections retorna uma cópia das seleções na ordem de inserção
func (e *Engine) Selections() []Selection {
	out := make([]Selection, len(e.selections))
	copy(out, e.selections)
	return out
}

// Len retorna a quantidade de seleções
func (e *Engine) Len() int { return len(e.selections) }

// Stake retorna a stake gravada para um id (zero se não houver)
func (e *Engine) Stake(id string) decimal.Decimal { return e.stakes[id] }

// ParlayStake retorna a stake do parlay
func (e *Engine) ParlayStake() decimal.Decimal { return e.parlayStake }

// PotentialWin é stake * odd para uma seleção presente no cupom
func (e *Engine) PotentialWin(id string) decimal.Decimal {
	i := e.indexOf(id)
	if i < 0 {
		return decimal.Zero
	}
	return e.stakes[id].Mul(e.selections[i].Odds)
}

// CombinedOdds é o produto das odds; cupom vazio vale zero
func (e *Engine) CombinedOdds() decimal.Decimal {
	if len(e.selections) == 0 {
		return decimal.Zero
	}
	acc := decimal.NewFromInt(1)
	for _, s := range e.selections {
		acc = acc.Mul(s.Odds)
	}
	return acc
}

// ParlayPotentialWin é parlayStake * CombinedOdds
func (e *Engine) ParlayPotentialWin() decimal.Decimal {
	return e.parlayStake.Mul(e.CombinedOdds())
}

// TotalStaked soma apenas stakes de seleções presentes (entradas antigas são ignoradas)
func (e *Engine) TotalStaked() decimal.Decimal {
	if e.EffectiveMode() == Parlay {
		return e.parlayStake
	}
	total := decimal.Zero
	for _, s := range e.selections {
		total = total.Add(e.stakes[s.ID])
	}
	return total
}

// TotalPotentialWin segue o modo efetivo
func (e *Engine) TotalPotentialWin() decimal.Decimal {
	if e.EffectiveMode() == Parlay {
		return e.ParlayPotentialWin()
	}
	total := decimal.Zero
	for _, s := range e.selections {
		total = total.Add(e.stakes[s.ID].Mul(s.Odds))
	}
	return total
}

// CheckPlacement retorna nil se a aposta é admissível para o saldo informado
func (e *Engine) CheckPlacement(balance decimal.Decimal) error {
	total := e.TotalStaked()
	if !total.IsPositive() {
		return ErrNoStake
	}
	if total.GreaterThan(balance) {
		return ErrInsufficientBalance
	}
	return nil
}

// CanPlace: total > 0 e total <= saldo
func (e *Engine) CanPlace(balance decimal.Decimal) bool {
	return e.CheckPlacement(balance) == nil
}

// PlaceBet finaliza o cupom. Se não for admissível, ou se o débito falhar,
// nada é alterado. Em caso de sucesso o cupom é limpo por inteiro.
// Uma nova tentativa sobre o mesmo cupom repete o id da anterior, então o
// dono do saldo consegue reconhecer um débito já aplicado.
func (e *Engine) PlaceBet(ctx context.Context, balance decimal.Decimal, debiter Debiter) (*Placement, error) {
	if err := e.CheckPlacement(balance); err != nil {
		return nil, err
	}

	if e.pendingID == "" {
		e.pendingID = uuid.NewString()
	}
	mode := e.EffectiveMode()
	p := &Placement{
		ID:           e.pendingID,
		Mode:         mode,
		Legs:         make([]Leg, 0, len(e.selections)),
		TotalStake:   e.TotalStaked(),
		PotentialWin: e.TotalPotentialWin(),
		CombinedOdds: e.CombinedOdds(),
		PlacedAt:     time.Now().UTC(),
	}

	// parlay: stake dividida igualmente entre as pernas
	var split decimal.Decimal
	if mode == Parlay {
		split = e.parlayStake.Div(decimal.NewFromInt(int64(len(e.selections))))
	}
	for _, s := range e.selections {
		stake := split
		if mode == Single {
			stake = e.stakes[s.ID]
		}
		p.Legs = append(p.Legs, Leg{Selection: s, Stake: stake})
	}

	if debiter != nil {
		if err := debiter.Debit(ctx, p.ID, p.TotalStake); err != nil {
			return nil, fmt.Errorf("debit %s: %w", p.TotalStake, err)
		}
	}

	e.selections = nil
	e.stakes = make(map[string]decimal.Decimal)
	e.parlayStake = e.defaultParlayStake
	e.pendingID = ""
	return p, nil
}
