package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Order sides as reported by the upstream feed. A SELL-side liquidation
// closes a long position, a BUY-side liquidation closes a short.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// WindowDuration is the trailing retention period for liquidation events,
// in milliseconds. Events older than this are never served.
const WindowDurationMillis int64 = 15 * 60 * 1000

// LiquidationEvent is one normalized forced-liquidation fill.
// The JSON shape mirrors the upstream order object so that persisted
// records stay byte-compatible with the external store contract.
type LiquidationEvent struct {
	Symbol    string   `json:"s"`
	Side      string   `json:"S"`
	Price     float64  `json:"p"`
	Quantity  float64  `json:"q"`
	AvgPrice  *float64 `json:"ap,omitempty"`
	Value     float64  `json:"value"`
	EventTime int64    `json:"T"` // epoch millis, feed-reported fill time
}

// DecodeError reports a malformed liquidation payload. It is never fatal:
// callers log it and drop the message.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode liquidation: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode liquidation: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// flexNumber accepts a JSON number or a numeric string. The live feed
// quotes price fields while some relays forward them unquoted.
type flexNumber string

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = flexNumber(s)
		return nil
	}
	*n = flexNumber(b)
	return nil
}

func (n flexNumber) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// wireOrder is the abbreviated order sub-object of the feed envelope.
type wireOrder struct {
	Symbol    string     `json:"s"`
	Side      string     `json:"S"`
	Price     flexNumber `json:"p"`
	Quantity  flexNumber `json:"q"`
	AvgPrice  flexNumber `json:"ap"`
	EventTime int64      `json:"T"`
}

type wireEnvelope struct {
	Order *wireOrder `json:"o"`
}

// DecodeEvent parses a raw feed message into a LiquidationEvent.
//
// A syntactically valid message without the order sub-object returns
// (nil, nil): the feed interleaves keep-alives and unrelated payloads and
// those are skipped silently. Unparseable price or quantity yields a
// DecodeError. The event value is computed here, exactly once, as
// price * quantity; downstream code treats it as a stored attribute.
func DecodeEvent(raw []byte) (*LiquidationEvent, error) {
	var env wireEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Reason: "invalid json", Err: err}
	}
	if env.Order == nil {
		return nil, nil
	}

	o := env.Order
	if o.Symbol == "" {
		return nil, &DecodeError{Reason: "missing symbol"}
	}
	price, err := o.Price.Float64()
	if err != nil {
		return nil, &DecodeError{Reason: "invalid price", Err: err}
	}
	qty, err := o.Quantity.Float64()
	if err != nil {
		return nil, &DecodeError{Reason: "invalid quantity", Err: err}
	}

	ev := &LiquidationEvent{
		Symbol:    o.Symbol,
		Side:      o.Side,
		Price:     price,
		Quantity:  qty,
		Value:     price * qty,
		EventTime: o.EventTime,
	}
	if o.AvgPrice != "" {
		if ap, err := o.AvgPrice.Float64(); err == nil {
			ev.AvgPrice = &ap
		}
	}
	return ev, nil
}
