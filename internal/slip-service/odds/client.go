package odds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/radieske/bet-simulator/internal/betslip"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrBadSelection = errors.New("bad selection")
)

// Client consulta o odds-service para montar seleções a partir do quadro
type Client struct {
	client *resty.Client
}

func New(base string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(strings.TrimSuffix(base, "/")).
			SetTimeout(2 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(100 * time.Millisecond),
	}
}

type apiError struct {
	Error string `json:"error"`
}

// Selection retorna a seleção (odd decimal, linha) para o clique jogo/mercado/lado
func (c *Client) Selection(ctx context.Context, gameID, market, side string) (betslip.Selection, error) {
	var out betslip.Selection
	var fail apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"id": gameID, "market": market, "side": side}).
		SetResult(&out).
		SetError(&fail).
		Get("/v1/games/{id}/selections/{market}/{side}")
	if err != nil {
		return betslip.Selection{}, fmt.Errorf("odds selection: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return betslip.Selection{}, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	case resp.StatusCode() == http.StatusBadRequest:
		return betslip.Selection{}, fmt.Errorf("%w: %s", ErrBadSelection, fail.Error)
	case resp.IsError():
		return betslip.Selection{}, fmt.Errorf("odds selection http %d", resp.StatusCode())
	}
	return out, nil
}
