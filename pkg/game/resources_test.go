package game

import "testing"

func TestResourcePool(t *testing.T) {
	tests := []struct {
		name      string
		initial   int
		spend     int
		wantOK    bool
		wantAfter int
	}{
		{"exact amount", 5, 5, true, 0},
		{"insufficient", 0, 1, false, 0},
		{"partial", 3, 1, true, 2},
		{"negative cost rejected", 3, -1, false, 3},
		{"negative initial clamps", -4, 1, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewResourcePool(tt.initial)
			if ok := p.Spend(tt.spend); ok != tt.wantOK {
				t.Errorf("Spend(%d) = %v, want %v", tt.spend, ok, tt.wantOK)
			}
			if p.Amount() != tt.wantAfter {
				t.Errorf("Amount = %d, want %d", p.Amount(), tt.wantAfter)
			}
		})
	}
}

func TestResourcePoolAddSet(t *testing.T) {
	p := NewResourcePool(0)
	p.Add(3)
	p.Add(-10)
	if p.Amount() != 3 {
		t.Errorf("Amount = %d, want 3", p.Amount())
	}
	p.Set(-2)
	if p.Amount() != 0 {
		t.Errorf("Set(-2) should clamp to 0, got %d", p.Amount())
	}
	if p.CanAfford(1) {
		t.Error("CanAfford(1) should be false with 0")
	}
}
