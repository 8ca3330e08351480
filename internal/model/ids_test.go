package model

import (
	"regexp"
	"strings"
	"testing"
)

func TestNewIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 25 {
			t.Fatalf("expected 25 chars, got %d (%q)", len(id), id)
		}
		if !regexp.MustCompile(`^[0-9a-f]{25}$`).MatchString(id) {
			t.Fatalf("expected lowercase hex, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestNewOrderNumberFormat(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-Z]+-[A-Z0-9]{4}$`)
	n := NewOrderNumber()
	if !re.MatchString(n) {
		t.Fatalf("unexpected order number %q", n)
	}
}

func TestNewOrderNumberUniqueInTightLoop(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := NewOrderNumber()
		if seen[n] {
			t.Fatalf("collision on %q after %d numbers", n, i)
		}
		seen[n] = true
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Dragon Figurine", "dragon-figurine"},
		{"  Phone Stand  ", "phone-stand"},
		{"Cable Organizer Set (5x)", "cable-organizer-set-5x"},
		{"Hello, World!", "hello-world"},
		{"under_scored name", "under-scored-name"},
		{"--already-dashed--", "already-dashed"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded} {
		if !s.Valid() {
			t.Fatalf("expected %s valid", s)
		}
	}
	for _, s := range []OrderStatus{"", "SHIPPING", "paid", "UNKNOWN"} {
		if s.Valid() {
			t.Fatalf("expected %q invalid", s)
		}
	}
}

func TestHasPaymentIntent(t *testing.T) {
	var o Order
	if o.HasPaymentIntent() {
		t.Fatalf("expected no intent on zero order")
	}
	empty := ""
	o.PaymentIntentID = &empty
	if o.HasPaymentIntent() {
		t.Fatalf("expected no intent for empty string")
	}
	id := "pi_123"
	o.PaymentIntentID = &id
	if !o.HasPaymentIntent() {
		t.Fatalf("expected intent present")
	}
}

func TestErrorHelpers(t *testing.T) {
	err := Errorf(ESTOCK, "Insufficient stock for %s. Available: %d", "Dragon Figurine", 2)
	if ErrorCode(err) != ESTOCK {
		t.Fatalf("expected code %q, got %q", ESTOCK, ErrorCode(err))
	}
	if !strings.Contains(ErrorMessage(err), "Available: 2") {
		t.Fatalf("unexpected message %q", ErrorMessage(err))
	}
	if ErrorCode(errForTest{}) != EINTERNAL {
		t.Fatalf("expected EINTERNAL for non-domain errors")
	}
	if ErrorMessage(errForTest{}) != "Internal error" {
		t.Fatalf("expected generic message for non-domain errors")
	}
}

type errForTest struct{}

func (errForTest) Error() string { return "boom" }
