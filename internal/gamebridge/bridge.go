// Package gamebridge receives one-way string signals from the embedded game
// module. Payloads are UTF-8, pipe-delimited, carrying one of three tags:
// coin grants in the legacy format, level completions with a grade, and a
// close notification. No acknowledgment is sent back and duplicate signals
// are not de-duplicated.
package gamebridge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Signal tags accepted from the game module.
const (
	TagAddCoins      = "ADD_COINS"
	TagLevelComplete = "LEVEL_COMPLETE"
	TagCloseGame     = "CLOSE_GAME"
)

// Errors returned by ParseSignal.
var (
	ErrUnknownSignal   = errors.New("gamebridge: unknown signal tag")
	ErrMalformedSignal = errors.New("gamebridge: malformed signal payload")
)

// Signal is a parsed inbound payload. Amount is set for coin and level
// signals; Grade only for level completions; Close only for close signals.
type Signal struct {
	Tag    string
	Amount int
	Grade  float64
	Close  bool
}

// ParseSignal decodes a raw pipe-delimited payload into a Signal.
func ParseSignal(payload string) (*Signal, error) {
	if payload == TagCloseGame {
		return &Signal{Tag: TagCloseGame, Close: true}, nil
	}

	parts := strings.Split(payload, "|")
	switch parts[0] {
	case TagAddCoins:
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedSignal, payload)
		}
		amount, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedSignal, payload)
		}
		return &Signal{Tag: TagAddCoins, Amount: amount}, nil

	case TagLevelComplete:
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedSignal, payload)
		}
		amount, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedSignal, payload)
		}
		grade, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedSignal, payload)
		}
		return &Signal{Tag: TagLevelComplete, Amount: amount, Grade: grade}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSignal, payload)
}

// Handler processes a parsed signal on behalf of a user.
type Handler func(ctx context.Context, userID string, sig *Signal) error

// Bridge dispatches inbound signals to subscribed handlers. Subscriptions
// are guarded by purpose: subscribing the same purpose twice is rejected, so
// repeated initialization cannot attach duplicate handlers. The guard is
// released only by Reset, which models a full page reload.
type Bridge struct {
	mu       sync.Mutex
	handlers map[string]Handler
}

// NewBridge creates a bridge with no subscriptions.
func NewBridge() *Bridge {
	return &Bridge{handlers: make(map[string]Handler)}
}

// Subscribe registers a handler under the given purpose. It reports whether
// the subscription was installed; false means the purpose was already taken.
func (bridge *Bridge) Subscribe(purpose string, h Handler) bool {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()

	if _, ok := bridge.handlers[purpose]; ok {
		return false
	}
	bridge.handlers[purpose] = h
	return true
}

// Reset drops every subscription, re-arming the guard.
func (bridge *Bridge) Reset() {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	bridge.handlers = make(map[string]Handler)
}

// Dispatch parses the payload and hands the signal to every subscribed
// handler. The parsed signal is returned so callers can report what it did.
// Handlers run sequentially; the first handler error stops dispatch.
func (bridge *Bridge) Dispatch(ctx context.Context, userID, payload string) (*Signal, error) {
	sig, err := ParseSignal(payload)
	if err != nil {
		return nil, err
	}

	bridge.mu.Lock()
	handlers := make([]Handler, 0, len(bridge.handlers))
	for _, h := range bridge.handlers {
		handlers = append(handlers, h)
	}
	bridge.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, userID, sig); err != nil {
			return sig, err
		}
	}
	return sig, nil
}
