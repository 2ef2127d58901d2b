package slot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtside/internal/domains/schedule/slot"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		openHour  int
		closeHour int
		wantErr   bool
	}{
		{name: "standard window", openHour: 8, closeHour: 22, wantErr: false},
		{name: "full day", openHour: 0, closeHour: 24, wantErr: false},
		{name: "inverted window", openHour: 22, closeHour: 8, wantErr: true},
		{name: "empty window", openHour: 10, closeHour: 10, wantErr: true},
		{name: "negative open", openHour: -1, closeHour: 22, wantErr: true},
		{name: "close past midnight", openHour: 8, closeHour: 25, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := slot.New(tt.openHour, tt.closeHour)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseHour(t *testing.T) {
	hour, err := slot.ParseHour("08:00")
	require.NoError(t, err)
	assert.Equal(t, 8, hour)

	hour, err = slot.ParseHour("21:00")
	require.NoError(t, err)
	assert.Equal(t, 21, hour)

	_, err = slot.ParseHour("08:30")
	assert.Error(t, err, "half hours are not sold")

	_, err = slot.ParseHour("8am")
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	cal, err := slot.New(8, 22)
	require.NoError(t, err)

	t.Run("single hour", func(t *testing.T) {
		slots, err := cal.Expand("court-1", "2024-01-10", 10, 11)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, "10:00", slots[0].StartTime())
		assert.Equal(t, "11:00", slots[0].EndTime())
	})

	t.Run("multi hour expands per hour", func(t *testing.T) {
		slots, err := cal.Expand("court-1", "2024-01-10", 9, 13)
		require.NoError(t, err)
		require.Len(t, slots, 4)

		for i, s := range slots {
			assert.Equal(t, "court-1", s.CourtID)
			assert.Equal(t, "2024-01-10", s.Date)
			assert.Equal(t, 9+i, s.StartHour)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := cal.Expand("court-1", "2024-01-10", 13, 9)
		assert.Error(t, err)
	})

	t.Run("zero duration", func(t *testing.T) {
		_, err := cal.Expand("court-1", "2024-01-10", 10, 10)
		assert.Error(t, err)
	})

	t.Run("before opening", func(t *testing.T) {
		_, err := cal.Expand("court-1", "2024-01-10", 7, 9)
		assert.Error(t, err)
	})

	t.Run("past closing", func(t *testing.T) {
		_, err := cal.Expand("court-1", "2024-01-10", 21, 23)
		assert.Error(t, err)
	})

	t.Run("last sellable hour", func(t *testing.T) {
		slots, err := cal.Expand("court-1", "2024-01-10", 21, 22)
		require.NoError(t, err)
		assert.Len(t, slots, 1)
	})
}

func TestInPast(t *testing.T) {
	cal, err := slot.New(8, 22)
	require.NoError(t, err)

	day, err := slot.ParseDate("2024-01-10")
	require.NoError(t, err)

	noon := day.Add(12 * time.Hour)

	past, err := cal.InPast("2024-01-10", 10, noon)
	require.NoError(t, err)
	assert.True(t, past)

	past, err = cal.InPast("2024-01-10", 12, noon)
	require.NoError(t, err)
	assert.True(t, past, "an hour that has started is no longer bookable")

	past, err = cal.InPast("2024-01-10", 13, noon)
	require.NoError(t, err)
	assert.False(t, past)

	_, err = cal.InPast("not-a-date", 13, noon)
	assert.Error(t, err)
}

func TestHours(t *testing.T) {
	cal, err := slot.New(8, 11)
	require.NoError(t, err)

	assert.Equal(t, []int{8, 9, 10}, cal.Hours())
	assert.True(t, cal.Contains(8))
	assert.True(t, cal.Contains(10))
	assert.False(t, cal.Contains(11))
	assert.False(t, cal.Contains(7))
}
