package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountAcceptsNumberOrString(t *testing.T) {
	tests := []struct {
		body string
		want Amount
	}{
		{`{"amount": 25.5}`, "25.5"},
		{`{"amount": "25.50"}`, "25.50"},
		{`{"amount": "abc"}`, "abc"},
		{`{"amount": ""}`, ""},
		{`{"amount": null}`, ""},
		{`{}`, ""},
		{`{"amount": -3}`, "-3"},
	}
	for _, tt := range tests {
		var req AmountRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req), tt.body)
		assert.Equal(t, tt.want, req.Amount, tt.body)
	}

	var req AmountRequest
	assert.Error(t, json.Unmarshal([]byte(`{"amount": true}`), &req))
}
