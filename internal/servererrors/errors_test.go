package servererrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{NotFound("order %s not found", "o1"), KindNotFound},
		{Conflict("barcode taken"), KindConflict},
		{InvalidState("bad transition"), KindInvalidState},
		{InsufficientStock("short by 2"), KindInsufficientStock},
		{Invalid("bad quantity"), KindInvalid},
		{errors.New("plain"), ""},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.want {
			t.Fatalf("KindOf(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("ship order: %w", InsufficientStock("need 5, have 3"))
	if !IsInsufficientStock(err) {
		t.Fatal("wrapped InsufficientStock not detected")
	}
	if !IsInvalidState(err) {
		t.Fatal("InsufficientStock must also count as InvalidState")
	}
	if IsNotFound(err) {
		t.Fatal("wrapped error misclassified as NotFound")
	}
}

func TestMessageFormatting(t *testing.T) {
	err := NotFound("product with id %s not found", "p1")
	if err.Error() != "product with id p1 not found" {
		t.Fatalf("message = %q", err.Error())
	}
}
