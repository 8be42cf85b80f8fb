package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/bet-simulator/internal/betslip"
	"github.com/radieske/bet-simulator/internal/slip-service/identity"
)

// SlipResponse é o cupom com o saldo do usuário e a admissibilidade da aposta
type SlipResponse struct {
	betslip.Snapshot
	Balance  decimal.Decimal `json:"balance"`
	CanPlace bool            `json:"canPlace"`
}

type WalletResponse struct {
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

type ToggleResponse struct {
	Added bool             `json:"added"`
	Slip  betslip.Snapshot `json:"slip"`
}

type StakeResponse struct {
	Amount decimal.Decimal  `json:"amount"`
	Slip   betslip.Snapshot `json:"slip"`
}

type PlaceResponse struct {
	Placement *betslip.Placement `json:"placement"`
	Balance   decimal.Decimal    `json:"balance"`
	Slip      betslip.Snapshot   `json:"slip"`
}

// RejectedResponse: a aposta não é admissível e o cupom segue intacto
type RejectedResponse struct {
	Error string           `json:"error"`
	Slip  betslip.Snapshot `json:"slip"`
}

type AuthResponse struct {
	*identity.Session
	ConfirmationRequired bool `json:"confirmationRequired,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
