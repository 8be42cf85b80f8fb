package betslip

import "github.com/shopspring/decimal"

// SelectionView é uma linha do cupom pronta para exibição
type SelectionView struct {
	Selection
	Description  string          `json:"description"`
	Stake        decimal.Decimal `json:"stake"`
	PotentialWin decimal.Decimal `json:"potentialWin"`
}

// Snapshot é a visão somente leitura do cupom consumida pela camada de apresentação.
// Valores monetários não são formatados aqui.
type Snapshot struct {
	Selections         []SelectionView `json:"selections"`
	Mode               Mode            `json:"mode"`
	EffectiveMode      Mode            `json:"effectiveMode"`
	ParlayStake        decimal.Decimal `json:"parlayStake"`
	CombinedOdds       decimal.Decimal `json:"combinedOdds"`
	ParlayPotentialWin decimal.Decimal `json:"parlayPotentialWin"`
	TotalStaked        decimal.Decimal `json:"totalStaked"`
	TotalPotentialWin  decimal.Decimal `json:"totalPotentialWin"`
}

// Snapshot calcula todos os valores derivados do estado atual
func (e *Engine) Snapshot() Snapshot {
	views := make([]SelectionView, 0, len(e.selections))
	for _, s := range e.selections {
		views = append(views, SelectionView{
			Selection:    s,
			Description:  Describe(s),
			Stake:        e.stakes[s.ID],
			PotentialWin: e.PotentialWin(s.ID),
		})
	}
	return Snapshot{
		Selections:         views,
		Mode:               e.mode,
		EffectiveMode:      e.EffectiveMode(),
		ParlayStake:        e.parlayStake,
		CombinedOdds:       e.CombinedOdds(),
		ParlayPotentialWin: e.ParlayPotentialWin(),
		TotalStaked:        e.TotalStaked(),
		TotalPotentialWin:  e.TotalPotentialWin(),
	}
}
