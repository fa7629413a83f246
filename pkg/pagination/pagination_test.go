package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: DefaultLimit},
		{in: -5, want: DefaultLimit},
		{in: 10, want: 10},
		{in: MaxLimit, want: MaxLimit},
		{in: MaxLimit + 1, want: MaxLimit},
	}
	for _, tt := range tests {
		if got := NormalizeLimit(tt.in); got != tt.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParamsNormalizeClampsOffset(t *testing.T) {
	p := Params{Offset: -3, Limit: 0}.Normalize()
	if p.Offset != 0 {
		t.Fatalf("expected offset 0, got %d", p.Offset)
	}
	if p.Limit != DefaultLimit {
		t.Fatalf("expected default limit, got %d", p.Limit)
	}
}
