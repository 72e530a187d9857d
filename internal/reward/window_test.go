package reward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindow(t *testing.T) {
	anchor := date(2024, time.January, 10)

	tests := []struct {
		name      string
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "inside first year",
			now:       date(2024, time.March, 1),
			wantStart: date(2024, time.January, 10),
			wantEnd:   date(2025, time.January, 10),
		},
		{
			name:      "just before first anniversary",
			now:       date(2025, time.January, 9),
			wantStart: date(2024, time.January, 10),
			wantEnd:   date(2025, time.January, 10),
		},
		{
			name:      "on the anniversary a new window opens",
			now:       date(2025, time.January, 10),
			wantStart: date(2025, time.January, 10),
			wantEnd:   date(2026, time.January, 10),
		},
		{
			name:      "second year",
			now:       date(2025, time.February, 1),
			wantStart: date(2025, time.January, 10),
			wantEnd:   date(2026, time.January, 10),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(anchor, tt.now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestWindowLeapAnchor(t *testing.T) {
	anchor := date(2024, time.February, 29)

	// In a non-leap year the anniversary clamps to Feb 28.
	start, end := Window(anchor, date(2025, time.June, 1))
	assert.Equal(t, date(2025, time.February, 28), start)
	assert.Equal(t, date(2026, time.February, 28), end)

	// Back in a leap year the true date is used again.
	start, end = Window(anchor, date(2028, time.March, 1))
	assert.Equal(t, date(2028, time.February, 29), start)
	assert.Equal(t, date(2029, time.February, 28), end)
}

// TestWindowOrdinalReset walks the documented scenario: a partner created
// 2024-01-10 installs referrals in March, May and July 2024 (ordinals 1-3),
// then another on 2025-02-01 which falls in the next window and is ordinal 1
// again — a 250€ voucher, not 1150€.
func TestWindowOrdinalReset(t *testing.T) {
	anchor := date(2024, time.January, 10)
	installs := []time.Time{
		date(2024, time.March, 1),
		date(2024, time.May, 1),
		date(2024, time.July, 1),
	}

	start, end := Window(anchor, installs[len(installs)-1])
	require.Equal(t, date(2024, time.January, 10), start)
	require.Equal(t, date(2025, time.January, 10), end)

	ordinal := 0
	for _, in := range installs {
		if !in.Before(start) && in.Before(end) {
			ordinal++
		}
	}
	require.Equal(t, 3, ordinal)
	assert.Equal(t, int64(90_000), VoucherAmount(ordinal))

	// Fourth install lands in the next window and counts from one again.
	fourth := date(2025, time.February, 1)
	start, end = Window(anchor, fourth)
	require.Equal(t, date(2025, time.January, 10), start)
	require.Equal(t, date(2026, time.January, 10), end)

	ordinal = 0
	for _, in := range append(installs, fourth) {
		if !in.Before(start) && in.Before(end) {
			ordinal++
		}
	}
	require.Equal(t, 1, ordinal)
	assert.Equal(t, int64(25_000), VoucherAmount(ordinal))
}

func TestAnniversaryAlert(t *testing.T) {
	anchor := date(2024, time.January, 10)

	tests := []struct {
		name       string
		now        time.Time
		wantOK     bool
		wantPassed bool
		wantUntil  int
	}{
		{"mid-year is quiet", date(2024, time.June, 1), false, false, 0},
		{"three weeks ahead", date(2024, time.December, 20), true, false, 21},
		{"day before", date(2025, time.January, 9), true, false, 1},
		{"anniversary day counts as passed", date(2025, time.January, 10), true, true, 365},
		{"ten days past", date(2025, time.January, 20), true, true, 355},
		{"thirty-one days past is quiet again", date(2025, time.February, 10), false, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert, ok := AnniversaryAlert(anchor, tt.now)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantPassed, alert.Passed)
			assert.Equal(t, tt.wantUntil, alert.DaysUntil)
		})
	}
}
