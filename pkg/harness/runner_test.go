package harness

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func parse(t *testing.T, script string) []Case {
	t.Helper()
	cases, err := ParseScript(strings.NewReader(script))
	require.NoError(t, err)
	return cases
}

func TestRunPasses(t *testing.T) {
	defer goleak.VerifyNone(t)

	rep, err := Run(context.Background(), parse(t, sampleScript), Options{Workers: 2})
	require.NoError(t, err)
	require.Len(t, rep.Results, 3)
	assert.Zero(t, rep.Failed)
	for i, id := range []int{0, 1, 7} {
		assert.Equal(t, id, rep.Results[i].ID)
		assert.True(t, rep.Results[i].Passed(), "test %d: %v", id, rep.Results[i].Err)
	}
}

func TestRunFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	script := `
t 0
n 0001
r 0 4 1
e 0001
t 1
r 0 4 1
t 2
n 0001
r 2 3 1
t 3
n 0001
r 0 4 4
e 0001
`
	rep, err := Run(context.Background(), parse(t, script), Options{})
	require.NoError(t, err)
	require.Len(t, rep.Results, 4)
	assert.Equal(t, 3, rep.Failed)

	assert.EqualError(t, rep.Results[0].Err, "line 5: expected 0001, got 0010")
	assert.ErrorIs(t, rep.Results[1].Err, ErrNoArray)
	assert.EqualError(t, rep.Results[2].Err, "line 10: subarray [2, 2+3) is out of range for 4 bits")
	assert.True(t, rep.Results[3].Passed())
}

func TestRunOnly(t *testing.T) {
	cases := parse(t, sampleScript)

	id := 7
	rep, err := Run(context.Background(), cases, Options{Only: &id})
	require.NoError(t, err)
	require.Len(t, rep.Results, 1)
	assert.Equal(t, 7, rep.Results[0].ID)

	missing := 3
	_, err = Run(context.Background(), cases, Options{Only: &missing})
	assert.EqualError(t, err, "test 3 not found")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep, err := Run(ctx, parse(t, sampleScript), Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Failed)
	for _, r := range rep.Results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestTierSize(t *testing.T) {
	assert.Equal(t, 1000, TierSize(0))
	assert.Equal(t, 1500, TierSize(1))
	assert.Equal(t, 2250, TierSize(2))
	assert.Equal(t, 3375, TierSize(3))
}

func TestTimedRotation(t *testing.T) {
	tier := TimedRotation(context.Background(), SmallLimit)
	assert.GreaterOrEqual(t, tier, -1)
	assert.LessOrEqual(t, tier, maxTier)

	assert.Equal(t, -1, TimedRotation(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, -1, TimedRotation(ctx, time.Hour))
}
