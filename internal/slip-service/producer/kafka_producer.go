package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/radieske/bet-simulator/internal/betslip"
	"github.com/radieske/bet-simulator/internal/shared/kafka"
	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
	"github.com/radieske/bet-simulator/pkg/contracts/events"
)

type KafkaPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{Writer: w}
}

// PublishSlipPlaced publica o evento com o usuário como chave (ordem por usuário)
func (p *KafkaPublisher) PublishSlipPlaced(ctx context.Context, e events.SlipPlaced) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = time.Now().UnixMilli()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.Writer, e.UserID, b)
}

// NewSlipPlaced converte uma colocação aceita no evento do tópico slip_placed
func NewSlipPlaced(userID string, p *betslip.Placement, newBalanceCents int64) events.SlipPlaced {
	legs := make([]events.PlacedLeg, 0, len(p.Legs))
	for _, l := range p.Legs {
		leg := events.PlacedLeg{
			SelectionID: l.Selection.ID,
			GameID:      l.Selection.GameID,
			Market:      string(l.Selection.Market),
			Side:        l.Selection.Side,
			Odds:        l.Selection.Odds.String(),
			StakeCents:  oddsmath.ToCents(l.Stake),
		}
		if l.Selection.Line != nil {
			s := l.Selection.Line.String()
			leg.Line = &s
		}
		legs = append(legs, leg)
	}
	return events.SlipPlaced{
		PlacementID:       p.ID,
		UserID:            userID,
		Mode:              string(p.Mode),
		Legs:              legs,
		TotalStakeCents:   oddsmath.ToCents(p.TotalStake),
		PotentialWinCents: oddsmath.ToCents(p.PotentialWin),
		CombinedOdds:      p.CombinedOdds.StringFixed(4),
		NewBalanceCents:   newBalanceCents,
		TsUnixMs:          p.PlacedAt.UnixMilli(),
	}
}
