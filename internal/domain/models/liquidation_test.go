package models

import (
	"errors"
	"testing"
)

func TestDecodeEvent(t *testing.T) {
	raw := []byte(`{"o":{"s":"BTCUSDT","S":"SELL","p":"100.5","q":"2","ap":"100.1","T":1700000000000}}`)
	ev, err := DecodeEvent(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Symbol != "BTCUSDT" || ev.Side != SideSell {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Price != 100.5 || ev.Quantity != 2 {
		t.Fatalf("unexpected price/qty %+v", ev)
	}
	if ev.Value != 201 {
		t.Fatalf("value not computed at decode, got %v", ev.Value)
	}
	if ev.AvgPrice == nil || *ev.AvgPrice != 100.1 {
		t.Fatalf("avg price not parsed: %+v", ev.AvgPrice)
	}
	if ev.EventTime != 1700000000000 {
		t.Fatalf("unexpected event time %d", ev.EventTime)
	}
}

func TestDecodeEventNumericFields(t *testing.T) {
	// relays may forward unquoted numbers
	ev, err := DecodeEvent([]byte(`{"o":{"s":"ETHUSDT","S":"BUY","p":50,"q":1,"T":2000}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Value != 50 {
		t.Fatalf("unexpected value %v", ev.Value)
	}
	if ev.AvgPrice != nil {
		t.Fatalf("expected absent avg price")
	}
}

func TestDecodeEventNoOrder(t *testing.T) {
	// keep-alives and unrelated payloads are skipped, not errors
	ev, err := DecodeEvent([]byte(`{}`))
	if err != nil || ev != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", ev, err)
	}
	ev, err = DecodeEvent([]byte(`{"e":"ping"}`))
	if err != nil || ev != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", ev, err)
	}
}

func TestDecodeEventMalformed(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json`),
		[]byte(`{"o":{"s":"X"}}`),                          // missing numerics
		[]byte(`{"o":{"s":"X","p":"abc","q":"1","T":1}}`),  // bad price
		[]byte(`{"o":{"s":"X","p":"1","q":null,"T":1}}`),   // null quantity
		[]byte(`{"o":{"S":"SELL","p":"1","q":"1","T":1}}`), // missing symbol
	}
	for _, raw := range cases {
		ev, err := DecodeEvent(raw)
		if err == nil {
			t.Fatalf("expected error for %s, got %+v", raw, ev)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected DecodeError for %s, got %T", raw, err)
		}
	}
}
