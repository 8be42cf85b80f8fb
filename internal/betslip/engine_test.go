package betslip

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ml(id, odds string) Selection {
	return Selection{ID: id, GameID: "1", Market: Moneyline, HomeTeam: "Lakers", AwayTeam: "Celtics", Side: "Lakers", Odds: dec(odds)}
}

func mustToggle(t *testing.T, e *Engine, s Selection) {
	t.Helper()
	added, err := e.Toggle(s)
	require.NoError(t, err)
	require.True(t, added)
}

type recordingDebiter struct {
	calls  int
	id     string
	amount decimal.Decimal
	err    error
}

func (r *recordingDebiter) Debit(_ context.Context, id string, amount decimal.Decimal) error {
	r.calls++
	r.id = id
	r.amount = amount
	return r.err
}

func TestSingleScenario(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "1.91"))
	e.SetStake("a", "50")

	assert.Equal(t, "95.50", e.PotentialWin("a").StringFixed(2))
	assert.True(t, e.TotalStaked().Equal(dec("50")))
	assert.Equal(t, "95.50", e.TotalPotentialWin().StringFixed(2))
}

func TestParlayScenario(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))
	mustToggle(t, e, ml("b", "1.5"))
	e.SetMode(Parlay)
	e.SetParlayStake("10")

	assert.True(t, e.CombinedOdds().Equal(dec("3.0")))
	assert.Equal(t, "30.00", e.ParlayPotentialWin().StringFixed(2))
	assert.True(t, e.TotalStaked().Equal(dec("10")))
	assert.Equal(t, "30.00", e.TotalPotentialWin().StringFixed(2))
}

func TestCombinedOdds(t *testing.T) {
	e := New()
	assert.True(t, e.CombinedOdds().IsZero(), "empty slip has no parlay")

	odds := []string{"1.91", "2.5", "1.4", "3.1"}
	want := dec("1")
	for i, o := range odds {
		mustToggle(t, e, ml(string(rune('a'+i)), o))
		want = want.Mul(dec(o))
		assert.True(t, e.CombinedOdds().Equal(want), "after %d legs", i+1)
	}
}

func TestToggleIsInvolution(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))
	mustToggle(t, e, ml("b", "1.5"))
	before := e.Selections()

	added, err := e.Toggle(ml("c", "1.8"))
	require.NoError(t, err)
	assert.True(t, added)
	added, err = e.Toggle(ml("c", "1.8"))
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, before, e.Selections())

	// reinserir move a seleção para o fim
	_, _ = e.Toggle(ml("a", "2.0"))
	mustToggle(t, e, ml("a", "2.0"))
	var ids []string
	for _, s := range e.Selections() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestToggleRejectsIncompleteSelection(t *testing.T) {
	e := New()
	line := dec("3.5")
	bad := []Selection{
		{ID: "", Market: Moneyline, Side: "x", Odds: dec("2")},
		{ID: "a", Market: "draw", Side: "x", Odds: dec("2")},
		{ID: "a", Market: Moneyline, Side: "", Odds: dec("2")},
		{ID: "a", Market: Moneyline, Side: "x", Odds: dec("1.0")},
		{ID: "a", Market: Moneyline, Side: "x", Odds: dec("2"), Line: &line},
		{ID: "a", Market: Spread, Side: "x", Odds: dec("2")},
	}
	for _, s := range bad {
		_, err := e.Toggle(s)
		assert.ErrorIs(t, err, ErrInvalidSelection, "%+v", s)
	}
	assert.Equal(t, 0, e.Len())
}

func TestRemove(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))
	e.Remove("missing")
	assert.Equal(t, 1, e.Len())
	e.Remove("a")
	assert.Equal(t, 0, e.Len())
	e.Remove("a")
	assert.Equal(t, 0, e.Len())
}

func TestStaleStakesAreIgnored(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))
	mustToggle(t, e, ml("b", "1.5"))
	e.SetStake("a", "20")
	e.SetStake("b", "30")
	e.SetStake("ghost", "1000")

	assert.True(t, e.TotalStaked().Equal(dec("50")))

	e.Remove("b")
	assert.True(t, e.TotalStaked().Equal(dec("20")))
	assert.True(t, e.TotalPotentialWin().Equal(dec("40")))
	assert.True(t, e.PotentialWin("b").IsZero())
	assert.True(t, e.PotentialWin("ghost").IsZero())
}

func TestStakeCoercion(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))

	assert.True(t, e.SetStake("a", "abc").IsZero())
	assert.True(t, e.SetStake("a", "-5").IsZero())
	assert.True(t, e.SetStake("a", "").IsZero())
	assert.True(t, e.SetStake("a", "12.5").Equal(dec("12.5")))
	assert.True(t, e.SetParlayStake("nope").IsZero())
	assert.True(t, e.SetParlayStake("7").Equal(dec("7")))
}

func TestEffectiveModeDegradesToSingle(t *testing.T) {
	e := New()
	e.SetMode(Parlay)
	assert.Equal(t, Single, e.EffectiveMode())
	assert.Equal(t, Parlay, e.Mode())

	mustToggle(t, e, ml("a", "2.0"))
	e.SetStake("a", "5")
	e.SetParlayStake("100")
	// uma seleção: parlay gravado mas cálculo é single
	assert.True(t, e.TotalStaked().Equal(dec("5")))
	assert.True(t, e.TotalPotentialWin().Equal(dec("10")))

	mustToggle(t, e, ml("b", "1.5"))
	assert.Equal(t, Parlay, e.EffectiveMode())
	assert.True(t, e.TotalStaked().Equal(dec("100")))

	e.Remove("b")
	e.Remove("a")
	assert.Equal(t, Parlay, e.Mode())
	assert.True(t, e.TotalStaked().IsZero())
	assert.True(t, e.TotalPotentialWin().IsZero())
}

func TestCanPlace(t *testing.T) {
	e := New()
	for _, b := range []string{"0", "1", "1000000"} {
		assert.False(t, e.CanPlace(dec(b)), "empty slip, balance %s", b)
	}
	assert.True(t, e.TotalPotentialWin().IsZero())

	mustToggle(t, e, ml("a", "2.0"))
	assert.False(t, e.CanPlace(dec("1000")), "zero stake")
	assert.ErrorIs(t, e.CheckPlacement(dec("1000")), ErrNoStake)

	e.SetStake("a", "50")
	assert.False(t, e.CanPlace(dec("40")))
	assert.ErrorIs(t, e.CheckPlacement(dec("40")), ErrInsufficientBalance)
	assert.ErrorIs(t, e.CheckPlacement(dec("40")), ErrInadmissiblePlacement)
	assert.True(t, e.CanPlace(dec("50")))
	assert.True(t, e.CanPlace(dec("51")))
}

func TestPlaceBetRejectedLeavesSlipUnchanged(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))
	e.SetStake("a", "50")
	before := e.Snapshot()

	d := &recordingDebiter{}
	p, err := e.PlaceBet(context.Background(), dec("40"), d)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrInadmissiblePlacement)
	assert.Equal(t, 0, d.calls)
	assert.Equal(t, before, e.Snapshot())
}

func TestPlaceBetDebitFailureLeavesSlipUnchanged(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))
	e.SetStake("a", "50")
	before := e.Snapshot()

	boom := errors.New("wallet down")
	d := &recordingDebiter{err: boom}
	_, err := e.PlaceBet(context.Background(), dec("100"), d)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, d.calls)
	assert.Equal(t, before, e.Snapshot())
}

func TestSubCentStakes(t *testing.T) {
	e := New(WithDefaultParlayStake(dec("10.005")))
	assert.True(t, e.ParlayStake().Equal(dec("10")))

	mustToggle(t, e, ml("a", "2.0"))
	e.SetStake("a", "0.001")
	assert.True(t, e.Stake("a").IsZero())
	assert.False(t, e.CanPlace(dec("100")))
	_, err := e.PlaceBet(context.Background(), dec("100"), nil)
	assert.ErrorIs(t, err, ErrNoStake)

	e.SetStake("a", "0.019")
	d := &recordingDebiter{}
	p, err := e.PlaceBet(context.Background(), dec("100"), d)
	require.NoError(t, err)
	assert.True(t, p.TotalStake.Equal(dec("0.01")))
	assert.True(t, d.amount.Equal(p.TotalStake))
}

func TestPlaceBetRetryReusesPlacementID(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "2.0"))
	e.SetStake("a", "50")

	d := &recordingDebiter{err: errors.New("timeout")}
	_, err := e.PlaceBet(context.Background(), dec("100"), d)
	require.Error(t, err)
	first := d.id
	require.NotEmpty(t, first)

	// mesmo cupom: mesmo id, o débito repetido é reconhecido pela carteira
	_, err = e.PlaceBet(context.Background(), dec("100"), d)
	require.Error(t, err)
	assert.Equal(t, first, d.id)

	// stake igual não conta como mudança
	e.SetStake("a", "50.00")
	d.err = nil
	p, err := e.PlaceBet(context.Background(), dec("100"), d)
	require.NoError(t, err)
	assert.Equal(t, first, p.ID)

	// depois do sucesso a próxima aposta tem id novo
	mustToggle(t, e, ml("a", "2.0"))
	e.SetStake("a", "5")
	p2, err := e.PlaceBet(context.Background(), dec("100"), d)
	require.NoError(t, err)
	assert.NotEqual(t, first, p2.ID)
}

func TestPendingPlacementIDResetsWhenSlipChanges(t *testing.T) {
	mutations := map[string]func(e *Engine){
		"stake":        func(e *Engine) { e.SetStake("a", "60") },
		"parlay stake": func(e *Engine) { e.SetParlayStake("3") },
		"mode":         func(e *Engine) { e.SetMode(Parlay) },
		"toggle":       func(e *Engine) { _, _ = e.Toggle(ml("b", "1.5")) },
		"remove":       func(e *Engine) { e.Remove("a") },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			e := New()
			mustToggle(t, e, ml("a", "2.0"))
			e.SetStake("a", "50")

			d := &recordingDebiter{err: errors.New("timeout")}
			_, err := e.PlaceBet(context.Background(), dec("100"), d)
			require.Error(t, err)
			first := d.id

			mutate(e)
			e.SetStake("a", "50")
			if e.Len() == 0 {
				mustToggle(t, e, ml("a", "2.0"))
			}
			_, err = e.PlaceBet(context.Background(), dec("100"), d)
			require.Error(t, err)
			assert.NotEqual(t, first, d.id)
		})
	}
}

func TestPlaceBetSingle(t *testing.T) {
	e := New()
	mustToggle(t, e, ml("a", "1.91"))
	mustToggle(t, e, ml("b", "2.5"))
	e.SetStake("a", "50")
	e.SetStake("b", "10")
	e.SetStake("stale", "99")

	d := &recordingDebiter{}
	p, err := e.PlaceBet(context.Background(), dec("1000"), d)
	require.NoError(t, err)

	assert.Equal(t, Single, p.Mode)
	require.Len(t, p.Legs, 2)
	assert.Equal(t, "a", p.Legs[0].Selection.ID)
	assert.True(t, p.Legs[0].Stake.Equal(dec("50")))
	assert.True(t, p.Legs[1].Stake.Equal(dec("10")))
	assert.True(t, p.TotalStake.Equal(dec("60")))
	assert.Equal(t, "120.50", p.PotentialWin.StringFixed(2))

	assert.Equal(t, 1, d.calls)
	assert.Equal(t, p.ID, d.id)
	assert.True(t, d.amount.Equal(dec("60")))

	assert.Equal(t, 0, e.Len())
	assert.True(t, e.TotalStaked().IsZero())
	assert.True(t, e.Stake("a").IsZero())
	assert.True(t, e.Stake("stale").IsZero())
}

func TestPlaceBetParlaySplitsStake(t *testing.T) {
	e := New(WithDefaultParlayStake(dec("10")))
	mustToggle(t, e, ml("a", "2.0"))
	mustToggle(t, e, ml("b", "1.5"))
	mustToggle(t, e, ml("c", "1.2"))
	e.SetMode(Parlay)
	e.SetParlayStake("30")

	p, err := e.PlaceBet(context.Background(), dec("30"), nil)
	require.NoError(t, err)
	assert.Equal(t, Parlay, p.Mode)
	for _, l := range p.Legs {
		assert.True(t, l.Stake.Equal(dec("10")), l.Stake.String())
	}
	assert.True(t, p.CombinedOdds.Equal(dec("3.6")))
	assert.Equal(t, "108.00", p.PotentialWin.StringFixed(2))

	assert.Equal(t, 0, e.Len())
	assert.True(t, e.ParlayStake().Equal(dec("10")), "parlay stake back to default")
	assert.Equal(t, Parlay, e.Mode())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("parlay")
	require.NoError(t, err)
	assert.Equal(t, Parlay, m)
	_, err = ParseMode("teaser")
	assert.ErrorIs(t, err, ErrUnknownMode)
}
