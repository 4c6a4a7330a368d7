package usage

import "testing"

func TestNewReport(t *testing.T) {
	b := NewBudget(1000000, 615800, 1700000000000)
	r := NewReport(PeriodMonth, 1700000000, 1702600000, "ollama", 384200, b)

	if r.Period() != PeriodMonth {
		t.Errorf("Period() = %q", r.Period())
	}
	if r.PeriodStart() != 1700000000 || r.PeriodEnd() != 1702600000 {
		t.Errorf("period bounds = %d..%d", r.PeriodStart(), r.PeriodEnd())
	}
	if r.Provider() != "ollama" {
		t.Errorf("Provider() = %q", r.Provider())
	}
	if r.TokensUsed() != 384200 {
		t.Errorf("TokensUsed() = %d", r.TokensUsed())
	}
	if r.Budget().TokensRemaining() != 615800 {
		t.Errorf("Budget().TokensRemaining() = %d", r.Budget().TokensRemaining())
	}
}

func TestBudget_IsExhausted(t *testing.T) {
	tests := []struct {
		name      string
		limit     int64
		remaining int64
		want      bool
	}{
		{"unlimited", 0, -1, false},
		{"spent", 100, 0, true},
		{"left", 100, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBudget(tt.limit, tt.remaining, 0).IsExhausted(); got != tt.want {
				t.Errorf("IsExhausted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeriod_IsValid(t *testing.T) {
	if !PeriodDay.IsValid() || !PeriodMonth.IsValid() || !PeriodTotal.IsValid() {
		t.Error("known periods must be valid")
	}
	if Period("week").IsValid() {
		t.Error("week must be invalid")
	}
}
