package monitor

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMinMax(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		wantMin float64
		wantMax float64
	}{
		{"empty data returns percentage defaults", []float64{}, 0, 100},
		{"percentage data uses fixed range", []float64{10, 50, 90}, 0, 100},
		{"non-percentage data uses actual range", []float64{-50, 200, 500}, -50, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minVal, maxVal := findMinMax(tt.data)
			assert.Equal(t, tt.wantMin, minVal)
			assert.Equal(t, tt.wantMax, maxVal)
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, 0.5, normalizeValue(50, 0, 100))
	assert.Equal(t, 0.0, normalizeValue(0, 0, 100))
	assert.Equal(t, 0.5, normalizeValue(7, 7, 7))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, clampInt(-3, 10))
	assert.Equal(t, 10, clampInt(12, 10))
	assert.Equal(t, 4, clampInt(4, 10))
}

func TestResampleData(t *testing.T) {
	t.Run("same size is unchanged", func(t *testing.T) {
		data := []float64{1, 2, 3}
		assert.Equal(t, data, resampleData(data, 3))
	})

	t.Run("downsampling keeps peaks", func(t *testing.T) {
		got := resampleData([]float64{1, 9, 2, 3}, 2)
		assert.Equal(t, []float64{9, 3}, got)
	})

	t.Run("upsampling interpolates", func(t *testing.T) {
		got := resampleData([]float64{0, 10}, 3)
		assert.Equal(t, []float64{0, 5, 10}, got)
	})

	t.Run("single value fills", func(t *testing.T) {
		assert.Equal(t, []float64{4, 4, 4}, resampleData([]float64{4}, 3))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, resampleData(nil, 3))
		assert.Nil(t, resampleData([]float64{1}, 0))
	})
}

func TestRenderBraille_Dimensions(t *testing.T) {
	out := RenderBraille([]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}, 16, 3, ColorGraph)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 16, lipgloss.Width(l))
	}
}

func TestRenderBraille_Levels(t *testing.T) {
	empty := RenderBraille([]float64{0, 0, 0}, 4, 2, ColorGraph)
	assert.NotContains(t, empty, "⣿")

	full := RenderBraille([]float64{100, 100, 100}, 4, 2, ColorGraph)
	assert.Equal(t, 8, strings.Count(full, "⣿"))
}

func TestRenderBraille_InvalidInput(t *testing.T) {
	assert.Empty(t, RenderBraille(nil, 10, 2, ColorGraph))
	assert.Empty(t, RenderBraille([]float64{1}, 0, 2, ColorGraph))
	assert.Empty(t, RenderBraille([]float64{1}, 10, 0, ColorGraph))
}

func TestRenderChart(t *testing.T) {
	values := []float64{0, 0, 0, 0, 0, 0, 0, 0, 40, 95}

	out := RenderChart("CPU", values, UnitPercent, 40, 4, ColorGraph)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 6)
	assert.Contains(t, lines[0], "CPU")
	assert.Contains(t, lines[0], "95.0%")
	assert.Equal(t, out, RenderChart("CPU", values, UnitPercent, 40, 4, ColorGraph))
}

func TestChartUnitFormat(t *testing.T) {
	assert.Equal(t, "12.5%", UnitPercent.Format(12.5))
	assert.Equal(t, "3.25 MB", UnitMB.Format(3.25))
}
