package numerology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifepath/pkg/domain-errors"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateLayout, s)
	require.NoError(t, err)
	return d
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name      string
		birthDate string
		want      int
	}{
		// 0+3+0+7+1+9+9+0 = 29 -> 11, and 11 is a master number: stop, do not
		// continue to 2.
		{name: "reduction stops on master number mid-chain", birthDate: "1990-03-07", want: 11},
		// 0+1+0+8+2+0+0+0 = 11 exactly
		{name: "initial sum 11 returned unreduced", birthDate: "2000-01-08", want: 11},
		// 0+9+0+9+2+0+1+1 = 22 exactly
		{name: "initial sum 22 returned unreduced", birthDate: "2011-09-09", want: 22},
		// 0+1+0+1+1+9+8+8 = 28 exactly
		{name: "initial sum 28 returned unreduced", birthDate: "1988-01-01", want: 28},
		// 0+1+0+4+1+9+9+9 = 33 exactly
		{name: "initial sum 33 returned unreduced", birthDate: "1999-01-04", want: 33},
		// 0+6+1+5+1+9+8+7 = 37 -> 10 -> 1
		{name: "multi-step digital root", birthDate: "1987-06-15", want: 1},
		// 0+1+0+1+2+0+0+0 = 4, already a single digit
		{name: "single digit sum needs no reduction", birthDate: "2000-01-01", want: 4},
		// 3+1+1+2+1+9+9+9 = 35 -> 8
		{name: "end of year date", birthDate: "1999-12-31", want: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Number(date(t, tt.birthDate)))
		})
	}
}

func TestNumberDeterministic(t *testing.T) {
	d := date(t, "1962-11-23")
	first := Number(d)
	for i := 0; i < 100; i++ {
		require.Equal(t, first, Number(d))
	}
}

// TestNumberBoundedDomain sweeps a century of dates and checks every result
// lands in {1..9, 11, 22, 28, 33}.
func TestNumberBoundedDomain(t *testing.T) {
	valid := map[int]bool{
		1: true, 2: true, 3: true, 4: true, 5: true,
		6: true, 7: true, 8: true, 9: true,
		11: true, 22: true, 28: true, 33: true,
	}

	d := date(t, "1900-01-01")
	end := date(t, "2000-01-01")
	for d.Before(end) {
		got := Number(d)
		if !valid[got] {
			t.Fatalf("Number(%s) = %d, outside the allowed domain", d.Format(DateLayout), got)
		}
		d = d.AddDate(0, 0, 1)
	}
}

func TestParseDate(t *testing.T) {
	t.Run("accepts ISO dates", func(t *testing.T) {
		d, err := ParseDate("1990-03-07")
		require.NoError(t, err)
		assert.Equal(t, 1990, d.Year())
		assert.Equal(t, time.March, d.Month())
		assert.Equal(t, 7, d.Day())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, raw := range []string{"", "not-a-date", "07/03/1990", "1990-3-7"} {
			_, err := ParseDate(raw)
			require.Error(t, err, "input %q", raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDate))
		}
	})

	t.Run("rejects impossible calendar dates", func(t *testing.T) {
		_, err := ParseDate("2023-02-30")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidDate))
	})
}
