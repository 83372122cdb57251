package main

import (
	"testing"

	"github.com/decker502/zombie-defense/pkg/components"
	"github.com/decker502/zombie-defense/pkg/config"
)

func TestRing(t *testing.T) {
	tests := []struct {
		r    int
		want int
	}{
		{1, 8},
		{2, 16},
		{3, 24},
	}
	center := components.Cell{X: 10, Z: 10}
	for _, tt := range tests {
		cells := ring(center, tt.r)
		if len(cells) != tt.want {
			t.Errorf("ring(%d): got %d cells, want %d", tt.r, len(cells), tt.want)
		}
		for _, c := range cells {
			if max(abs(c.X-center.X), abs(c.Z-center.Z)) != tt.r {
				t.Errorf("ring(%d): cell %+v not on the ring", tt.r, c)
			}
		}
	}
}

// TestWallRingAffordable 默认配置的初始资源足够放满一圈墙
func TestWallRingAffordable(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cost := len(ring(components.Cell{X: 10, Z: 10}, wallRingRadius)) * cfg.Costs.Wall
	if cost > cfg.StartingResources {
		t.Errorf("ring costs %d, only %d starting resources", cost, cfg.StartingResources)
	}
}
