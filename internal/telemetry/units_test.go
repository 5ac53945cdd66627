package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesToGB(t *testing.T) {
	tests := []struct {
		bytes  uint64
		expect string
	}{
		{0, "0.00"},
		{2147483648, "2.00"},
		{1610612736, "1.50"},
		{17179869184, "16.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expect, BytesToGB(tt.bytes), "bytes=%d", tt.bytes)
	}
}

func TestBytesToMB(t *testing.T) {
	assert.Equal(t, "1.00", BytesToMB(1048576))
	assert.Equal(t, "0.50", BytesToMB(524288))
	assert.Equal(t, 1.5, MBValue(1572864))
	assert.Equal(t, 0.0, MBValue(0))
}

func TestMHzToGHz(t *testing.T) {
	assert.Equal(t, "2.40", MHzToGHz(2400))
	assert.Equal(t, "0.00", MHzToGHz(0))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "45.2%", FormatPercent(45.2))
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "100.0%", FormatPercent(100))
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "N/A", FormatTemperature(Reading{}, "N/A"))
	assert.Equal(t, "62.5 °C", FormatTemperature(Known(62.5), "N/A"))
	assert.Equal(t, "0.0 °C", FormatTemperature(Known(0), "N/A"))
}
