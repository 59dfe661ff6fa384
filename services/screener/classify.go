package screener

// Equilibrium zone labels derived from priceToEquilibrium (signed percent
// distance of the current price from the 50% retracement of the 52-week
// range).
const (
	ZoneDiscount    = "discount"
	ZoneEquilibrium = "equilibrium"
	ZonePremium     = "premium"
)

// RSI zone labels.
const (
	RSIZoneOversold   = "oversold"
	RSIZoneNeutral    = "neutral"
	RSIZoneOverbought = "overbought"
)

// Zone boundaries. These are part of the classification contract: saved
// presets and exported reports depend on them, so changing either is a
// versioned protocol change.
const (
	equilibriumZoneBand = 5.0
	rsiOversoldLevel    = 30.0
	rsiOverboughtLevel  = 70.0
)

// EquilibriumZone classifies a priceToEquilibrium value. Boundary values -5
// and +5 belong to the equilibrium zone; the comparisons are strict by
// contract.
func EquilibriumZone(priceToEquilibrium float64) string {
	if priceToEquilibrium < -equilibriumZoneBand {
		return ZoneDiscount
	}
	if priceToEquilibrium > equilibriumZoneBand {
		return ZonePremium
	}
	return ZoneEquilibrium
}

// RSIZone classifies an RSI value. 30 and 70 exactly are neutral.
func RSIZone(rsi float64) string {
	if rsi < rsiOversoldLevel {
		return RSIZoneOversold
	}
	if rsi > rsiOverboughtLevel {
		return RSIZoneOverbought
	}
	return RSIZoneNeutral
}

// Trend, signal and volume profile arrive pre-classified on the instrument;
// the maps below only translate them to display labels.

// TrendLabel returns the display label for a trend value.
func TrendLabel(trend string) string {
	switch trend {
	case "bullish":
		return "Bullish"
	case "bearish":
		return "Bearish"
	default:
		return "Neutral"
	}
}

// SignalLabel returns the display label for a signal value.
func SignalLabel(signal string) string {
	switch signal {
	case "buy":
		return "Buy"
	case "sell":
		return "Sell"
	default:
		return "Hold"
	}
}

// VolumeProfileLabel returns the display label for a volume profile value.
func VolumeProfileLabel(profile string) string {
	switch profile {
	case "high":
		return "High"
	case "low":
		return "Low"
	default:
		return "Medium"
	}
}
