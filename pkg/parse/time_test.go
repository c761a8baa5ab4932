package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTime(t *testing.T) {
	t.Parallel()

	date, err := Time("2024-01-01T12:00:00+00:00")
	require.NoError(t, err)
	require.WithinDuration(t, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), date, 0)

	date, err = Time("2024-01-01T15:30:00+03:30")
	require.NoError(t, err)
	require.WithinDuration(t, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC), date, 0)

	_, err = Time("just now")
	require.Error(t, err)
}
