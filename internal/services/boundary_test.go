package services

import (
	"testing"
	"time"

	"huddle/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNextBoundary(t *testing.T) {
	// A Monday afternoon
	now := time.Date(2026, time.August, 31, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		cadence models.Cadence
		now     time.Time
		want    time.Time
		wantOK  bool
	}{
		{
			name:    "immediate is due right away",
			cadence: models.CadenceImmediate,
			now:     now,
			want:    now,
			wantOK:  true,
		},
		{
			name:    "daily rolls to next midnight",
			cadence: models.CadenceDaily,
			now:     now,
			want:    time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "daily at exactly midnight still waits a full day",
			cadence: models.CadenceDaily,
			now:     time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			want:    time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "weekly from midweek rolls to next Monday",
			cadence: models.CadenceWeekly,
			now:     time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC), // Wednesday
			want:    time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "weekly on a Monday rolls a full week",
			cadence: models.CadenceWeekly,
			now:     now,
			want:    time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
			wantOK:  true,
		},
		{
			name:    "never produces nothing",
			cadence: models.CadenceNever,
			now:     now,
			wantOK:  false,
		},
		{
			name:    "unknown cadence produces nothing",
			cadence: models.Cadence("hourly"),
			now:     now,
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextBoundary(tt.cadence, tt.now)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNextBoundaryNormalisesToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	now := time.Date(2026, time.August, 31, 22, 0, 0, 0, est) // Sept 1st, 03:00 UTC

	got, ok := NextBoundary(models.CadenceDaily, now)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC), got)
}
