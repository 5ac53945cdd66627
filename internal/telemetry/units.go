package telemetry

import (
	"fmt"
	"math"
)

const (
	bytesPerMB = 1024 * 1024
	bytesPerGB = 1024 * 1024 * 1024
)

// BytesToGB formats bytes as gigabytes (bytes / 1024^3) with two decimals.
func BytesToGB(b uint64) string {
	return fmt.Sprintf("%.2f", float64(b)/bytesPerGB)
}

// BytesToMB formats bytes as megabytes (bytes / 1024^2) with two decimals.
func BytesToMB(b uint64) string {
	return fmt.Sprintf("%.2f", float64(b)/bytesPerMB)
}

// MBValue returns bytes as megabytes rounded to two decimals, for charting.
func MBValue(b uint64) float64 {
	return round2(float64(b) / bytesPerMB)
}

// MHzToGHz formats a frequency in MHz as GHz with two decimals.
func MHzToGHz(mhz float64) string {
	return fmt.Sprintf("%.2f", mhz/1000)
}

// FormatPercent formats a percentage with one decimal and a % suffix.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatTemperature formats a temperature reading in °C, or returns
// placeholder when the reading is unknown.
func FormatTemperature(r Reading, placeholder string) string {
	if !r.Valid {
		return placeholder
	}
	return fmt.Sprintf("%.1f °C", r.Value)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
