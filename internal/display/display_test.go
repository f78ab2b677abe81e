package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		ago  time.Duration
		want string
	}{
		{0, "agora mesmo"},
		{30 * time.Second, "há 30 segundos"},
		{90 * time.Second, "há 1 minuto"},
		{5 * time.Minute, "há 5 minutos"},
		{3 * time.Hour, "há 3 horas"},
		{36 * time.Hour, "há 1 dia"},
		{4 * 24 * time.Hour, "há 4 dias"},
		{10 * 24 * time.Hour, "há 1 semana"},
		{45 * 24 * time.Hour, "há 1 mês"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			require.Equal(t, tc.want, RelativeTime(now.Add(-tc.ago), now))
		})
	}
}

func TestRelativeTime_Future(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "daqui a 2 horas", RelativeTime(now.Add(2*time.Hour+time.Minute), now))
}

func TestSheetTimestamp(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	require.Equal(t, "02/01/2025 03:04:05", SheetTimestamp(ts, nil))

	loc := time.FixedZone("BRT", -3*60*60)
	require.Equal(t, "02/01/2025 00:04:05", SheetTimestamp(ts, loc))
}
