package screener

import (
	"testing"
)

func TestEquilibriumZone(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"deep discount", -10, ZoneDiscount},
		{"just below band", -5.01, ZoneDiscount},
		{"lower boundary is equilibrium", -5, ZoneEquilibrium},
		{"zero", 0, ZoneEquilibrium},
		{"upper boundary is equilibrium", 5, ZoneEquilibrium},
		{"just above band", 5.01, ZonePremium},
		{"deep premium", 25, ZonePremium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EquilibriumZone(tt.value); got != tt.want {
				t.Errorf("EquilibriumZone(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRSIZone(t *testing.T) {
	tests := []struct {
		name string
		rsi  float64
		want string
	}{
		{"oversold", 25, RSIZoneOversold},
		{"boundary 30 is neutral", 30, RSIZoneNeutral},
		{"mid range", 50, RSIZoneNeutral},
		{"boundary 70 is neutral", 70, RSIZoneNeutral},
		{"overbought", 70.5, RSIZoneOverbought},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RSIZone(tt.rsi); got != tt.want {
				t.Errorf("RSIZone(%v) = %q, want %q", tt.rsi, got, tt.want)
			}
		})
	}
}

func TestLabels(t *testing.T) {
	if got := TrendLabel("bullish"); got != "Bullish" {
		t.Errorf("TrendLabel(bullish) = %q", got)
	}
	if got := TrendLabel("unknown"); got != "Neutral" {
		t.Errorf("TrendLabel(unknown) = %q", got)
	}
	if got := SignalLabel("sell"); got != "Sell" {
		t.Errorf("SignalLabel(sell) = %q", got)
	}
	if got := VolumeProfileLabel("low"); got != "Low" {
		t.Errorf("VolumeProfileLabel(low) = %q", got)
	}
}
