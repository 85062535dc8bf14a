package dashboard

import "testing"

func TestBoard_NewerTicketWins(t *testing.T) {
	b := NewBoard[int]()
	older := b.Ticket()
	newer := b.Ticket()

	if !b.Apply("AAPL", newer, 2) {
		t.Fatal("expected newer result to apply")
	}
	if b.Apply("AAPL", older, 1) {
		t.Error("expected older result to be rejected")
	}
	if v, _ := b.Get("AAPL"); v != 2 {
		t.Errorf("expected 2, got %d", v)
	}
}

func TestBoard_TicketsAreStrictlyIncreasing(t *testing.T) {
	b := NewBoard[string]()
	prev := b.Ticket()
	for i := 0; i < 100; i++ {
		next := b.Ticket()
		if next <= prev {
			t.Fatalf("ticket %d not greater than %d", next, prev)
		}
		prev = next
	}
}

func TestBoard_KeysAreIndependent(t *testing.T) {
	b := NewBoard[int]()
	t1, t2 := b.Ticket(), b.Ticket()
	b.Apply("B", t2, 2)
	if !b.Apply("A", t1, 1) {
		t.Error("expected older ticket to apply to a different key")
	}
	keys := b.Keys()
	if len(keys) != 2 || keys[0] != "A" || keys[1] != "B" {
		t.Errorf("unexpected keys %v", keys)
	}
	b.Delete("A")
	if _, ok := b.Get("A"); ok || b.Len() != 1 {
		t.Error("expected A to be deleted")
	}
}

func TestBoard_Subscribe(t *testing.T) {
	b := NewBoard[int]()
	var got []int
	cancel := b.Subscribe(func(_ string, v int) { got = append(got, v) })

	t1, t2 := b.Ticket(), b.Ticket()
	b.Apply("X", t2, 2)
	b.Apply("X", t1, 1)
	cancel()
	b.Apply("X", b.Ticket(), 3)

	if len(got) != 1 || got[0] != 2 {
		t.Errorf("expected only the applied value [2], got %v", got)
	}
}

func TestErrorState(t *testing.T) {
	var e ErrorState
	if _, ok := e.Current(); ok {
		t.Error("expected no error initially")
	}
	e.Set("Stock ZZZ not found")
	e.Set("Failed to fetch stock data")
	if msg, ok := e.Current(); !ok || msg != "Failed to fetch stock data" {
		t.Errorf("expected latest message, got %q", msg)
	}
	e.Clear()
	if _, ok := e.Current(); ok {
		t.Error("expected error to be cleared")
	}
}
