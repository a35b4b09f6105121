package orders

import "testing"

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"NEW", "CONFIRMED", "SHIPPED", "CANCELLED", "RECEIVED"} {
		if st, ok := ParseStatus(s); !ok || string(st) != s {
			t.Fatalf("ParseStatus(%q) = %q, %v", s, st, ok)
		}
	}
	for _, s := range []string{"", "new", "PAID", "DELIVERED", "UNKNOWN"} {
		if _, ok := ParseStatus(s); ok {
			t.Fatalf("ParseStatus(%q) accepted a value outside the closed set", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusNew, StatusConfirmed, true},
		{StatusNew, StatusCancelled, true},
		{StatusNew, StatusShipped, false},
		{StatusNew, StatusReceived, false},
		{StatusConfirmed, StatusShipped, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusReceived, false},
		{StatusShipped, StatusReceived, true},
		{StatusShipped, StatusCancelled, true},
		{StatusShipped, StatusConfirmed, false},
		{StatusCancelled, StatusNew, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusReceived, StatusCancelled, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for st, terminal := range map[Status]bool{
		StatusNew:       false,
		StatusConfirmed: false,
		StatusShipped:   false,
		StatusCancelled: true,
		StatusReceived:  true,
	} {
		if st.Terminal() != terminal {
			t.Fatalf("%s.Terminal() = %v, want %v", st, st.Terminal(), terminal)
		}
	}
}
