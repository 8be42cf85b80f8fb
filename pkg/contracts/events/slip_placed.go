package events

// Evento publicado no tópico "slip_placed" quando um cupom é aceito e debitado.
// Valores monetários em centavos; odds decimais como string para não perder precisão.
type SlipPlaced struct {
	PlacementID       string      `json:"placement_id"`
	UserID            string      `json:"user_id"`
	Mode              string      `json:"mode"` // "single" | "parlay"
	Legs              []PlacedLeg `json:"legs"`
	TotalStakeCents   int64       `json:"total_stake_cents"`
	PotentialWinCents int64       `json:"potential_win_cents"`
	CombinedOdds      string      `json:"combined_odds"`
	NewBalanceCents   int64       `json:"new_balance_cents"`
	TsUnixMs          int64       `json:"ts_unix_ms"`
}

type PlacedLeg struct {
	SelectionID string  `json:"selection_id"`
	GameID      string  `json:"game_id"`
	Market      string  `json:"market"`
	Side        string  `json:"side"`
	Line        *string `json:"line,omitempty"`
	Odds        string  `json:"odds"`
	StakeCents  int64   `json:"stake_cents"`
}
