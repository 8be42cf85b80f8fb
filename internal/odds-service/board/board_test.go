package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/bet-simulator/internal/betslip"
	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
)

func defaultCatalogT(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefaultCatalog(t *testing.T) {
	c := defaultCatalogT(t)

	all := c.Games(AllLeagues)
	require.Len(t, all, 8)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, all, c.Games(""))

	nba := c.Games("nba")
	require.Len(t, nba, 2)
	assert.Equal(t, "Golden State Warriors", nba[1].HomeTeam)

	assert.Empty(t, c.Games("mls"))

	leagues := c.Leagues()
	require.Len(t, leagues, 4)
	assert.Equal(t, "MLB", leagues[0].League)
	assert.Equal(t, 2, leagues[0].Games)
}

func TestCatalogGame(t *testing.T) {
	c := defaultCatalogT(t)
	g, err := c.Game("7")
	require.NoError(t, err)
	assert.Equal(t, "Toronto Maple Leafs", g.HomeTeam)
	assert.Equal(t, 5.5, g.Total.Line)

	_, err = c.Game("99")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestLoadRejectsBadCatalog(t *testing.T) {
	dup := []byte(`
games:
  - { id: "1", league: NBA, homeTeam: A, awayTeam: B, moneyline: {home: -110, away: 100}, spread: {homeOdds: -110, awayOdds: -110}, total: {overOdds: -110, underOdds: -110} }
  - { id: "1", league: NBA, homeTeam: C, awayTeam: D, moneyline: {home: -110, away: 100}, spread: {homeOdds: -110, awayOdds: -110}, total: {overOdds: -110, underOdds: -110} }
`)
	_, err := Load(dup)
	assert.ErrorContains(t, err, "duplicate")

	badOdds := []byte(`
games:
  - { id: "1", league: NBA, homeTeam: A, awayTeam: B, moneyline: {home: 50, away: 100}, spread: {homeOdds: -110, awayOdds: -110}, total: {overOdds: -110, underOdds: -110} }
`)
	_, err = Load(badOdds)
	assert.ErrorIs(t, err, oddsmath.ErrInvalidOdds)

	_, err = Load([]byte("games: ["))
	assert.Error(t, err)
}

func TestBuildSelection(t *testing.T) {
	c := defaultCatalogT(t)
	g, err := c.Game("1")
	require.NoError(t, err)

	tests := []struct {
		market  betslip.Market
		side    string
		id      string
		label   string
		odds    string
		line    string
		descrip string
	}{
		{betslip.Moneyline, "home", "1:moneyline:home", "Los Angeles Lakers", "1.6667", "", "Los Angeles Lakers to win"},
		{betslip.Moneyline, "away", "1:moneyline:away", "Boston Celtics", "2.3", "", "Boston Celtics to win"},
		{betslip.Spread, "away", "1:spread:away", "Boston Celtics", "1.9091", "3.5", "Boston Celtics +3.5"},
		{betslip.Spread, "home", "1:spread:home", "Los Angeles Lakers", "1.9091", "-3.5", "Los Angeles Lakers -3.5"},
		{betslip.OverUnder, "over", "1:overUnder:over", "over", "1.9091", "219.5", "Over 219.5"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			sel, err := BuildSelection(g, tt.market, tt.side)
			require.NoError(t, err)
			assert.Equal(t, tt.id, sel.ID)
			assert.Equal(t, "1", sel.GameID)
			assert.Equal(t, tt.label, sel.Side)
			assert.Equal(t, tt.odds, sel.Odds.String())
			if tt.line == "" {
				assert.Nil(t, sel.Line)
			} else {
				require.NotNil(t, sel.Line)
				assert.Equal(t, tt.line, sel.Line.String())
			}
			assert.Equal(t, tt.descrip, betslip.Describe(sel))
		})
	}
}

func TestBuildSelectionErrors(t *testing.T) {
	c := defaultCatalogT(t)
	g, _ := c.Game("2")

	_, err := BuildSelection(g, betslip.Moneyline, "over")
	assert.ErrorIs(t, err, ErrUnknownSide)
	_, err = BuildSelection(g, betslip.OverUnder, "home")
	assert.ErrorIs(t, err, ErrUnknownSide)
	_, err = BuildSelection(g, "draw", "home")
	assert.ErrorIs(t, err, ErrUnknownMarket)
}

func TestParseMarket(t *testing.T) {
	m, err := ParseMarket("total")
	require.NoError(t, err)
	assert.Equal(t, betslip.OverUnder, m)
	_, err = ParseMarket("1x2")
	assert.ErrorIs(t, err, ErrUnknownMarket)
}
