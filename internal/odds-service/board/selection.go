package board

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radieske/bet-simulator/internal/betslip"
	"github.com/radieske/bet-simulator/internal/odds-service/dto"
	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
)

var (
	ErrUnknownMarket = errors.New("unknown market")
	ErrUnknownSide   = errors.New("unknown side")
)

// ParseMarket aceita os nomes do quadro; "total" é sinônimo de overUnder
func ParseMarket(s string) (betslip.Market, error) {
	switch s {
	case "moneyline":
		return betslip.Moneyline, nil
	case "spread":
		return betslip.Spread, nil
	case "overUnder", "total":
		return betslip.OverUnder, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMarket, s)
}

// SelectionID é estável: o mesmo clique no quadro gera sempre o mesmo id
func SelectionID(gameID string, market betslip.Market, side string) string {
	return fmt.Sprintf("%s:%s:%s", gameID, market, side)
}

// BuildSelection transforma um clique no quadro (jogo, mercado, lado) numa
// seleção com odd decimal. Lados: home|away para moneyline e spread, over|under para total.
func BuildSelection(g dto.Game, market betslip.Market, side string) (betslip.Selection, error) {
	sel := betslip.Selection{
		ID:       SelectionID(g.ID, market, side),
		GameID:   g.ID,
		Market:   market,
		HomeTeam: g.HomeTeam,
		AwayTeam: g.AwayTeam,
	}

	var (
		american int
		line     *decimal.Decimal
	)
	switch market {
	case betslip.Moneyline:
		switch side {
		case "home":
			sel.Side, american = g.HomeTeam, g.Moneyline.Home
		case "away":
			sel.Side, american = g.AwayTeam, g.Moneyline.Away
		default:
			return betslip.Selection{}, fmt.Errorf("%w: %q for %s", ErrUnknownSide, side, market)
		}
	case betslip.Spread:
		switch side {
		case "home":
			sel.Side, american, line = g.HomeTeam, g.Spread.HomeOdds, lineOf(g.Spread.Home)
		case "away":
			sel.Side, american, line = g.AwayTeam, g.Spread.AwayOdds, lineOf(g.Spread.Away)
		default:
			return betslip.Selection{}, fmt.Errorf("%w: %q for %s", ErrUnknownSide, side, market)
		}
	case betslip.OverUnder:
		switch side {
		case "over":
			american = g.Total.OverOdds
		case "under":
			american = g.Total.UnderOdds
		default:
			return betslip.Selection{}, fmt.Errorf("%w: %q for %s", ErrUnknownSide, side, market)
		}
		sel.Side, line = side, lineOf(g.Total.Line)
	default:
		return betslip.Selection{}, fmt.Errorf("%w: %q", ErrUnknownMarket, market)
	}

	odds, err := oddsmath.AmericanToDecimal(american)
	if err != nil {
		return betslip.Selection{}, fmt.Errorf("game %s %s %s: %w", g.ID, market, side, err)
	}
	sel.Odds = odds.Round(4)
	sel.Line = line
	return sel, sel.Validate()
}

func lineOf(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}
