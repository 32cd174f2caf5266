// Package harness runs functional rotation scripts and timed rotation tiers
// against the bitarray package.
package harness

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wavesplatform/everybit/pkg/bitarray"
)

var ErrNoArray = errors.New("no bit array loaded")

// Options control a functional run.
type Options struct {
	// Only, if not nil, restricts the run to the case with this id.
	Only *int
	// Workers limits the number of cases executed at once, GOMAXPROCS if zero.
	Workers int
}

type Result struct {
	ID  int
	Err error
}

func (r Result) Passed() bool {
	return r.Err == nil
}

// Report holds results in script order.
type Report struct {
	Results []Result
	Failed  int
}

// Run executes cases concurrently. Cancelling ctx fails the cases that have
// not finished yet with the context error.
func Run(ctx context.Context, cases []Case, opts Options) (Report, error) {
	selected := cases
	if opts.Only != nil {
		selected = nil
		for _, c := range cases {
			if c.ID == *opts.Only {
				selected = append(selected, c)
			}
		}
		if len(selected) == 0 {
			return Report{}, errors.Errorf("test %d not found", *opts.Only)
		}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var (
		results = make([]Result, len(selected))
		failed  = atomic.NewInt32(0)
		g       errgroup.Group
	)
	g.SetLimit(workers)
	for i, c := range selected {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = runCase(c)
			}
			if err != nil {
				failed.Inc()
				zap.S().Debugf("Test %d failed: %v", c.ID, err)
			}
			results[i] = Result{ID: c.ID, Err: err}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are kept in results
	return Report{Results: results, Failed: int(failed.Load())}, nil
}

func runCase(c Case) error {
	var cur *bitarray.BitArray
	for _, s := range c.Steps {
		switch s.Kind {
		case StepLoad:
			cur = bitarray.MustParse(s.Bits.String())
		case StepRotate:
			if cur == nil {
				return errors.Wrapf(ErrNoArray, "line %d", s.Line)
			}
			if s.Offset < 0 || s.Length < 0 || s.Offset > cur.Size()-s.Length {
				return errors.Errorf("line %d: subarray [%d, %d+%d) is out of range for %d bits",
					s.Line, s.Offset, s.Offset, s.Length, cur.Size())
			}
			cur.Rotate(s.Offset, s.Length, s.Amount)
		case StepExpect:
			if cur == nil {
				return errors.Wrapf(ErrNoArray, "line %d", s.Line)
			}
			if !cur.Equal(s.Bits) {
				return errors.Errorf("line %d: expected %s, got %s", s.Line, s.Bits, cur)
			}
		default:
			return errors.Errorf("line %d: unknown step '%c'", s.Line, s.Kind)
		}
	}
	return nil
}
