package harness

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/wavesplatform/everybit/pkg/bitarray"
)

const (
	firstTierSize = 1000
	maxTier       = 40
)

// Tier limits of the command line harness.
const (
	SmallLimit  = 10 * time.Millisecond
	MediumLimit = 100 * time.Millisecond
	LargeLimit  = time.Second
)

// TierSize returns the number of bits rotated at the given tier.
// Each tier is 3/2 times larger than the previous one.
func TierSize(tier int) int {
	size := firstTierSize
	for i := 0; i < tier; i++ {
		size += size / 2
	}
	return size
}

// TimedRotation rotates larger and larger random arrays and returns the
// highest tier that finished within limit, or -1 if even the first one did not.
func TimedRotation(ctx context.Context, limit time.Duration) int {
	r := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6172)) // #nosec: not used for security
	completed := -1
	for tier := 0; tier <= maxTier; tier++ {
		if ctx.Err() != nil {
			zap.S().Debugf("Timed rotation cancelled at tier %d", tier)
			break
		}
		size := TierSize(tier)
		ba := bitarray.New(size)
		ba.RandFill(r)
		elapsed := rotateTimed(ba)
		zap.S().Debugf("Tier %d: %d bits rotated in %s", tier, size, elapsed)
		if elapsed >= limit {
			break
		}
		completed = tier
	}
	return completed
}

func rotateTimed(ba *bitarray.BitArray) time.Duration {
	size := ba.Size()
	start := time.Now()
	ba.Rotate(size/4, size/2, -size/4)
	ba.Rotate(size/4, size/2, size/8)
	return time.Since(start)
}
