package civiltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	t.Run("canonical form is identity", func(t *testing.T) {
		got, err := NormalizeDate("2024-07-01")
		require.NoError(t, err)
		assert.Equal(t, "2024-07-01", got)
	})

	t.Run("slash dates are day first", func(t *testing.T) {
		got, err := NormalizeDate("02/07/2024")
		require.NoError(t, err)
		assert.Equal(t, "2024-07-02", got)
	})

	t.Run("iso instant truncates to encoded date", func(t *testing.T) {
		got, err := NormalizeDate("2024-07-01T23:30:00-03:00")
		require.NoError(t, err)
		assert.Equal(t, "2024-07-01", got)

		got, err = NormalizeDate("2024-07-01T08:15:00")
		require.NoError(t, err)
		assert.Equal(t, "2024-07-01", got)
	})

	t.Run("surrounding whitespace is tolerated", func(t *testing.T) {
		got, err := NormalizeDate("  2024-07-01 ")
		require.NoError(t, err)
		assert.Equal(t, "2024-07-01", got)
	})

	t.Run("rejects unrecognized input", func(t *testing.T) {
		for _, input := range []string{"", "tomorrow", "2024/07/01", "01-07-2024", "2024-13-40", "32/01/2024"} {
			_, err := NormalizeDate(input)
			assert.ErrorIs(t, err, ErrInvalidDateFormat, "input %q should be rejected", input)
		}
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		for _, input := range []string{"2024-07-01", "02/07/2024", "2024-07-01T23:30:00-03:00"} {
			once, err := NormalizeDate(input)
			require.NoError(t, err)
			twice, err := NormalizeDate(once)
			require.NoError(t, err)
			assert.Equal(t, once, twice)
		}
	})
}

func TestLocation(t *testing.T) {
	t.Run("resolves IANA names", func(t *testing.T) {
		loc, err := Location("America/Sao_Paulo")
		require.NoError(t, err)
		assert.Equal(t, "America/Sao_Paulo", loc.String())
	})

	t.Run("unknown zone", func(t *testing.T) {
		_, err := Location("America/Atlantis")
		assert.ErrorIs(t, err, ErrUnknownTimezone)
	})
}

func TestCivilDateIn(t *testing.T) {
	saoPaulo, err := Location("America/Sao_Paulo")
	require.NoError(t, err)

	t.Run("date rolls back across midnight UTC", func(t *testing.T) {
		// 01:30 UTC is still the previous evening in São Paulo (UTC-3).
		instant := time.Date(2024, 7, 2, 1, 30, 0, 0, time.UTC)
		assert.Equal(t, "2024-07-01", CivilDateIn(instant, saoPaulo))
	})

	t.Run("encoded offset does not matter", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		instant := time.Date(2024, 7, 2, 10, 0, 0, 0, tokyo)
		assert.Equal(t, "2024-07-01", CivilDateIn(instant, saoPaulo))
	})
}

func TestDayOfWeekIn(t *testing.T) {
	saoPaulo, err := Location("America/Sao_Paulo")
	require.NoError(t, err)

	// Monday 00:30 UTC is still Sunday in São Paulo.
	instant := time.Date(2024, 7, 1, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Sunday, DayOfWeekIn(instant, saoPaulo))
	assert.Equal(t, time.Monday, DayOfWeekIn(instant, time.UTC))
}

func TestToOffsetISOString(t *testing.T) {
	t.Run("fixed offset zone", func(t *testing.T) {
		saoPaulo, err := Location("America/Sao_Paulo")
		require.NoError(t, err)
		got := ToOffsetISOString(2024, time.July, 1, 9, 0, 0, saoPaulo)
		assert.Equal(t, "2024-07-01T09:00:00-03:00", got)
	})

	t.Run("offset follows daylight saving", func(t *testing.T) {
		newYork, err := Location("America/New_York")
		require.NoError(t, err)

		winter := ToOffsetISOString(2024, time.January, 15, 9, 0, 0, newYork)
		assert.Equal(t, "2024-01-15T09:00:00-05:00", winter)

		summer := ToOffsetISOString(2024, time.July, 15, 9, 0, 0, newYork)
		assert.Equal(t, "2024-07-15T09:00:00-04:00", summer)
	})
}

func TestFormatInstant(t *testing.T) {
	saoPaulo, err := Location("America/Sao_Paulo")
	require.NoError(t, err)

	instant := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-07-01T09:00:00-03:00", FormatInstant(instant, saoPaulo))
}

func TestDateAt(t *testing.T) {
	saoPaulo, err := Location("America/Sao_Paulo")
	require.NoError(t, err)

	t.Run("midnight in the zone", func(t *testing.T) {
		got, err := DateAt("2024-07-01", saoPaulo)
		require.NoError(t, err)
		assert.Equal(t, "2024-07-01T00:00:00-03:00", got.Format(OffsetLayout))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := DateAt("not-a-date", saoPaulo)
		assert.ErrorIs(t, err, ErrInvalidDateFormat)
	})
}
