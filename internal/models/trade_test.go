package models

import "testing"

func TestOwnersByDirection(t *testing.T) {
	links := []TradeBook{
		{BookID: 1, Direction: DirectionTo, OwnerID: 10},
		{BookID: 2, Direction: DirectionTo, OwnerID: 10},
		{BookID: 3, Direction: DirectionFrom, OwnerID: 20},
	}

	to, from, err := OwnersByDirection(links)
	if err != nil {
		t.Fatalf("OwnersByDirection: %v", err)
	}
	if to != 10 || from != 20 {
		t.Errorf("owners = to:%d from:%d, want to:10 from:20", to, from)
	}
}

func TestOwnersByDirectionMissingSide(t *testing.T) {
	links := []TradeBook{
		{BookID: 1, Direction: DirectionTo, OwnerID: 10},
	}
	if _, _, err := OwnersByDirection(links); err == nil {
		t.Fatal("expected error for one-sided links")
	}

	if _, _, err := OwnersByDirection(nil); err == nil {
		t.Fatal("expected error for empty links")
	}
}

func TestTradeIsTerminal(t *testing.T) {
	tests := []struct {
		state TradeState
		want  bool
	}{
		{TradeStateRequested, false},
		{TradeStateAccepted, true},
		{TradeStateCancelled, true},
	}
	for _, tt := range tests {
		trade := Trade{State: tt.state}
		if got := trade.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.state, got, tt.want)
		}
	}
}
