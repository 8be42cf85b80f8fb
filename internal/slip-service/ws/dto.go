package ws

import "encoding/json"

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: ping (o cupom do usuário é assinado na conexão)
type ClientMsg struct {
	Type string `json:"type"`
}

// SlipUpdate é enviado aos clientes conectados de um usuário
// Type: snapshot | placed
type SlipUpdate struct {
	UserID  string          `json:"userId"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewSlipUpdate serializa o payload (snapshot do cupom ou colocação)
func NewSlipUpdate(userID, typ string, payload any) (SlipUpdate, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return SlipUpdate{}, err
	}
	return SlipUpdate{UserID: userID, Type: typ, Payload: b}, nil
}
