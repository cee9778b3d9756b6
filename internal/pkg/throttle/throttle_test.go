package throttle

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeExpiry(t *testing.T) {
	base := time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		minutes float64
		want    time.Time
	}{
		{"thirty", 30, base.Add(30 * time.Minute)},
		{"one", 1, base.Add(time.Minute)},
		{"fractional", 1.5, base.Add(90 * time.Second)},
		{"large", 24 * 60, base.Add(24 * time.Hour)},
		{"zero falls back", 0, base.Add(30 * time.Minute)},
		{"negative falls back", -5, base.Add(30 * time.Minute)},
		{"nan falls back", math.NaN(), base.Add(30 * time.Minute)},
		{"inf falls back", math.Inf(1), base.Add(30 * time.Minute)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeExpiry(base, tt.minutes))
		})
	}
}

func TestCheckAward(t *testing.T) {
	last := time.Date(2026, 5, 15, 10, 0, 0, 0, time.UTC)

	d := CheckAward(nil, last, 30)
	assert.True(t, d.Allowed)

	d = CheckAward(&last, last.Add(29*time.Minute), 30)
	assert.False(t, d.Allowed)
	assert.Equal(t, last.Add(30*time.Minute), d.AvailableAt)

	d = CheckAward(&last, last, 30)
	assert.False(t, d.Allowed)

	d = CheckAward(&last, last.Add(30*time.Minute), 30)
	assert.True(t, d.Allowed)

	d = CheckAward(&last, last.Add(10*time.Minute), math.NaN())
	assert.False(t, d.Allowed)
	assert.Equal(t, last.Add(30*time.Minute), d.AvailableAt)
}

func TestCheckVisit(t *testing.T) {
	last := time.Now()
	assert.True(t, CheckVisit(nil))
	assert.False(t, CheckVisit(&last))
}
