package gamebridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignal(t *testing.T) {
	testCases := []struct {
		name     string
		payload  string
		expected *Signal
		wantErr  error
	}{
		{
			name:     "Legacy coin signal",
			payload:  "ADD_COINS|50",
			expected: &Signal{Tag: TagAddCoins, Amount: 50},
		},
		{
			name:     "Level complete with grade",
			payload:  "LEVEL_COMPLETE|100|10.5",
			expected: &Signal{Tag: TagLevelComplete, Amount: 100, Grade: 10.5},
		},
		{
			name:     "Close game",
			payload:  "CLOSE_GAME",
			expected: &Signal{Tag: TagCloseGame, Close: true},
		},
		{
			name:    "Unknown tag",
			payload: "SELF_DESTRUCT|1",
			wantErr: ErrUnknownSignal,
		},
		{
			name:    "Coin signal with non-numeric amount",
			payload: "ADD_COINS|lots",
			wantErr: ErrMalformedSignal,
		},
		{
			name:    "Coin signal with missing amount",
			payload: "ADD_COINS",
			wantErr: ErrMalformedSignal,
		},
		{
			name:    "Level complete with missing grade",
			payload: "LEVEL_COMPLETE|100",
			wantErr: ErrMalformedSignal,
		},
		{
			name:    "Level complete with non-numeric grade",
			payload: "LEVEL_COMPLETE|100|great",
			wantErr: ErrMalformedSignal,
		},
		{
			name:    "Empty payload",
			payload: "",
			wantErr: ErrUnknownSignal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := ParseSignal(tc.payload)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sig)
		})
	}
}

func TestBridgeSubscribeGuard(t *testing.T) {
	bridge := NewBridge()
	handler := func(ctx context.Context, userID string, sig *Signal) error { return nil }

	assert.True(t, bridge.Subscribe("panel", handler), "first subscription should be installed")
	assert.False(t, bridge.Subscribe("panel", handler), "repeated subscription must be rejected")
	assert.True(t, bridge.Subscribe("audit", handler), "a different purpose is independent")

	bridge.Reset()
	assert.True(t, bridge.Subscribe("panel", handler), "reset re-arms the guard")
}

func TestBridgeDispatchDoubleCredit(t *testing.T) {
	bridge := NewBridge()

	credited := 0
	bridge.Subscribe("panel", func(ctx context.Context, userID string, sig *Signal) error {
		credited += sig.Amount
		return nil
	})

	// The protocol has no de-duplication: a replayed signal credits again.
	for i := 0; i < 2; i++ {
		sig, err := bridge.Dispatch(context.Background(), "user-1", "ADD_COINS|50")
		require.NoError(t, err)
		assert.Equal(t, 50, sig.Amount)
	}
	assert.Equal(t, 100, credited)
}

func TestBridgeDispatchMalformed(t *testing.T) {
	bridge := NewBridge()

	called := false
	bridge.Subscribe("panel", func(ctx context.Context, userID string, sig *Signal) error {
		called = true
		return nil
	})

	_, err := bridge.Dispatch(context.Background(), "user-1", "ADD_COINS|NaN")
	assert.ErrorIs(t, err, ErrMalformedSignal)
	assert.False(t, called, "handlers must not run for malformed payloads")
}
