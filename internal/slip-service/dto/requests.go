package dto

import (
	"bytes"
	"encoding/json"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToggleRequest identifica o clique no quadro de odds
type ToggleRequest struct {
	GameID string `json:"gameId"`
	Market string `json:"market"`
	Side   string `json:"side"`
}

type ModeRequest struct {
	Mode string `json:"mode"`
}

type AmountRequest struct {
	Amount Amount `json:"amount"`
}

// Amount guarda o texto digitado no campo de stake. Aceita número ou string
// JSON; a interpretação (inválido ou negativo vira zero) fica com o cupom
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}
