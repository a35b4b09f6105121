package stock

import "testing"

func TestCritical(t *testing.T) {
	cases := []struct {
		name string
		s    Stock
		want bool
	}{
		{"above threshold", Stock{Quantity: 10, MinQuantity: 3}, false},
		{"at threshold", Stock{Quantity: 3, MinQuantity: 3}, true},
		{"below threshold", Stock{Quantity: 1, MinQuantity: 3}, true},
		{"zero on zero threshold", Stock{Quantity: 0, MinQuantity: 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.Critical(); got != tc.want {
				t.Fatalf("Critical() = %v, want %v", got, tc.want)
			}
		})
	}
}
