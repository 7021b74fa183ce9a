package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	now := time.Date(2025, 3, 15, 17, 42, 9, 0, time.UTC)
	start, end := Today(now)
	require.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), end)
}

func TestMonth_YearRollover(t *testing.T) {
	now := time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC)
	start, end := Month(now)
	require.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
