package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want string
	}{
		{"zero", 0, "0"},
		{"positive integer", 30, "+30"},
		{"negative integer", -9, "-9"},
		{"trailing zeros trimmed", 7.50, "+7.5"},
		{"two decimals kept", -0.25, "-0.25"},
		{"third decimal rounded", 1.0 / 3.0, "+0.33"},
		{"rounds to zero keeps sign", 0.001, "+0"},
		{"negative fraction", -62.5, "-62.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRate(tt.rate))
		})
	}
}

func TestFormatPower(t *testing.T) {
	assert.Equal(t, "+75 MW", FormatPower(75))
	assert.Equal(t, "-9.6 MW", FormatPower(-9.6))
	assert.Equal(t, "0 MW", FormatPower(0))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "100%", FormatClock(100))
	assert.Equal(t, "62.5%", FormatClock(62.5))
	assert.Equal(t, "0%", FormatClock(0))
	assert.Equal(t, "250%", FormatClock(250))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "×3", FormatCount(3))
	assert.Equal(t, "×2.5", FormatCount(2.5))
	assert.Equal(t, "×0", FormatCount(0))
}

func TestStyledRate_PlainTextBySign(t *testing.T) {
	// Styling varies with the terminal; the rendered text does not.
	assert.Equal(t, "+30", stripANSI(StyledRate(30)))
	assert.Equal(t, "-30", stripANSI(StyledRate(-30)))
	assert.Equal(t, "0", stripANSI(StyledRate(0)))
}
