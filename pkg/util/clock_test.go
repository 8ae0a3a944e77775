package util

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestSetClock(t *testing.T) {
	fake := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	SetClock(fake)
	t.Cleanup(func() { SetClock(nil) })

	require.Equal(t, fake.Now(), Clock().Now())

	SetClock(nil)
	require.NotEqual(t, fake.Now(), Clock().Now())
}
