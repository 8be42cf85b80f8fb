package dto

// Game representa um jogo no quadro de odds.
// Cotações no formato americano, como vêm do fornecedor (ex: -110, +150)
type Game struct {
	ID        string    `json:"id" yaml:"id"`
	League    string    `json:"league" yaml:"league"`
	HomeTeam  string    `json:"homeTeam" yaml:"homeTeam"`
	AwayTeam  string    `json:"awayTeam" yaml:"awayTeam"`
	StartTime string    `json:"startTime" yaml:"startTime"`
	Moneyline Moneyline `json:"moneyline" yaml:"moneyline"`
	Spread    Spread    `json:"spread" yaml:"spread"`
	Total     Total     `json:"total" yaml:"total"`
}

type Moneyline struct {
	Home int `json:"home" yaml:"home"`
	Away int `json:"away" yaml:"away"`
}

// Spread: linha de handicap por lado e sua cotação
type Spread struct {
	Home     float64 `json:"home" yaml:"home"`
	HomeOdds int     `json:"homeOdds" yaml:"homeOdds"`
	Away     float64 `json:"away" yaml:"away"`
	AwayOdds int     `json:"awayOdds" yaml:"awayOdds"`
}

// Total: linha de pontos (over/under)
type Total struct {
	Line      float64 `json:"value" yaml:"value"`
	OverOdds  int     `json:"overOdds" yaml:"overOdds"`
	UnderOdds int     `json:"underOdds" yaml:"underOdds"`
}

// League agrupa jogos por liga
type League struct {
	League string `json:"league"`
	Games  int    `json:"games"`
}
