package booking

import "testing"

func TestParseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"Pending", StatusPending, true},
		{"processing", StatusProcessing, true},
		{" CONFIRMED ", StatusConfirmed, true},
		{"link", StatusLink, true},
		{"Cancelled", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInitialStatus(t *testing.T) {
	t.Parallel()

	if InitialStatus() != StatusPending {
		t.Fatalf("expected Pending, got %s", InitialStatus())
	}
	if Status("Done").IsValid() {
		t.Fatalf("Done must not be a valid status")
	}
}
