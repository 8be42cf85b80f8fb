package wallet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
	walletdto "github.com/radieske/bet-simulator/internal/wallet-service/dto"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

type Client struct {
	client *resty.Client
}

func New(base string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(strings.TrimSuffix(base, "/")).
			SetTimeout(2 * time.Second),
	}
}

// Balance retorna o saldo em centavos (a carteira é criada no primeiro acesso)
func (c *Client) Balance(ctx context.Context, userID string) (int64, error) {
	var out walletdto.WalletResponse
	var fail walletdto.ErrorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("userId", userID).
		SetResult(&out).
		SetError(&fail).
		Get("/wallet")
	if err != nil {
		return 0, fmt.Errorf("wallet balance: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("wallet balance http %d: %s", resp.StatusCode(), fail.Error)
	}
	return out.BalanceCents, nil
}

// Debit retira cents do saldo; externalRef torna a chamada idempotente
func (c *Client) Debit(ctx context.Context, userID string, cents int64, externalRef string) (int64, error) {
	var out walletdto.WalletResponse
	var fail walletdto.ErrorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(walletdto.DebitRequest{UserID: userID, AmountCents: cents, ExternalRef: externalRef}).
		SetResult(&out).
		SetError(&fail).
		Post("/wallet/debit")
	if err != nil {
		return 0, fmt.Errorf("wallet debit: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return 0, ErrInsufficientFunds
	}
	if resp.IsError() {
		return 0, fmt.Errorf("wallet debit http %d: %s", resp.StatusCode(), fail.Error)
	}
	return out.BalanceCents, nil
}

// DebitClient é o que o Debiter precisa da carteira
type DebitClient interface {
	Debit(ctx context.Context, userID string, cents int64, externalRef string) (int64, error)
}

// Debiter liga o cupom de um usuário à carteira dele.
// Depois de um débito bem sucedido BalanceCents traz o saldo novo
type Debiter struct {
	c            DebitClient
	userID       string
	BalanceCents int64
}

func NewDebiter(c DebitClient, userID string) *Debiter {
	return &Debiter{c: c, userID: userID}
}

func (c *Client) Debiter(userID string) *Debiter { return NewDebiter(c, userID) }

// Debit usa o id da colocação como external_ref
func (d *Debiter) Debit(ctx context.Context, placementID string, amount decimal.Decimal) error {
	bal, err := d.c.Debit(ctx, d.userID, oddsmath.ToCents(amount), placementID)
	if err != nil {
		return err
	}
	d.BalanceCents = bal
	return nil
}
