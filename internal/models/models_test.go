package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload_KeepsKeyOrder(t *testing.T) {
	p, err := ParsePayload([]byte(`{"phone":"5551234","document":"123456","amount":100.50,"meta":{"z":1,"a":[true,null]}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"phone", "document", "amount", "meta"}, p.Keys())

	amount, _ := p.Get("amount")
	assert.Equal(t, json.Number("100.50"), amount)

	meta, _ := p.Get("meta")
	require.IsType(t, &Payload{}, meta)
	assert.Equal(t, []string{"z", "a"}, meta.(*Payload).Keys())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, `{"phone":"5551234","document":"123456","amount":100.50,"meta":{"z":1,"a":[true,null]}}`, string(out))
}

func TestParsePayload_Errors(t *testing.T) {
	_, err := ParsePayload([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = ParsePayload([]byte(`{"a":`))
	assert.Error(t, err)

	_, err = ParsePayload([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)

	p, err := ParsePayload([]byte("  "))
	require.NoError(t, err)
	assert.Zero(t, p.Len())
}

func TestPayload_SetOverwriteKeepsPosition(t *testing.T) {
	p := NewPayload().Set("a", 1).Set("b", 2).Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, p.Keys())
	v, _ := p.Get("a")
	assert.Equal(t, 3, v)
}

func TestOperation_Keys(t *testing.T) {
	for _, op := range Operations {
		assert.Equal(t, op.Name+"Request", op.RequestKey)
		assert.Equal(t, op.Name+"Result", op.ResultKey())
	}

	inner := NewPayload().Set("sessionId", "s-1")
	wrapped := OpConfirmPayment.Wrap(inner)
	assert.Equal(t, []string{"ConfirmPaymentRequest"}, wrapped.Keys())
}

func TestEnvelopeFromResult(t *testing.T) {
	t.Run("typed envelope passes through", func(t *testing.T) {
		env := &Envelope{Success: true, CodError: CodeOK}
		got, err := EnvelopeFromResult(env)
		require.NoError(t, err)
		assert.Same(t, env, got)
	})

	t.Run("decoded record", func(t *testing.T) {
		got, err := EnvelopeFromResult(map[string]any{
			"success":      "true",
			"codError":     "00",
			"messageError": "ok",
			"data":         map[string]any{"balance": int64(150)},
		})
		require.NoError(t, err)
		assert.Equal(t, &Envelope{
			Success:      true,
			CodError:     "00",
			MessageError: "ok",
			Data:         map[string]any{"balance": int64(150)},
		}, got)
	})

	t.Run("empty data element is null", func(t *testing.T) {
		got, err := EnvelopeFromResult(map[string]any{"success": false, "codError": "02", "data": ""})
		require.NoError(t, err)
		assert.Nil(t, got.Data)
		assert.False(t, got.Success)
	})

	t.Run("non record", func(t *testing.T) {
		_, err := EnvelopeFromResult("boom")
		assert.Error(t, err)
	})

	t.Run("integer success flag", func(t *testing.T) {
		for _, flag := range []any{int64(1), 1, float64(1), json.Number("1"), "1"} {
			got, err := EnvelopeFromResult(map[string]any{"success": flag, "codError": "00"})
			require.NoError(t, err, "%T", flag)
			assert.True(t, got.Success, "%T", flag)
		}

		got, err := EnvelopeFromResult(map[string]any{"success": int64(0), "codError": "02"})
		require.NoError(t, err)
		assert.False(t, got.Success)

		for _, flag := range []any{int64(2), float64(0.5), -1} {
			_, err := EnvelopeFromResult(map[string]any{"success": flag})
			assert.Error(t, err, "%v", flag)
		}
	})

	t.Run("bad success flag", func(t *testing.T) {
		_, err := EnvelopeFromResult(map[string]any{"success": "maybe"})
		assert.Error(t, err)
	})
}

func TestErrorEnvelopesCarryNoData(t *testing.T) {
	for _, env := range []*Envelope{ValidationError("x"), InternalError("y")} {
		assert.False(t, env.Success)
		assert.Nil(t, env.Data)
	}

	body, err := json.Marshal(InternalError("down"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"codError":"99","messageError":"down","data":null}`, string(body))
}
