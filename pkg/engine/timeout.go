package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chazu/conway/pkg/polyhedron"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// ErrSuperseded is returned when a newer evaluation on the same Engine
// started before this one finished.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// evalResult carries evaluation output through channels.
type evalResult struct {
	poly   *polyhedron.Polyhedron
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch, returning an error if the
// evaluation exceeds timeout or ctx is done first. The generation counter
// discards results of evaluations that a newer call has superseded.
//
// On timeout the goroutine may still be running; its result lands in the
// buffered channel and is dropped.
func waitWithTimeout(
	ctx context.Context,
	ch <-chan evalResult,
	timeout time.Duration,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*polyhedron.Polyhedron, []EvalError, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, ErrSuperseded
		}
		return res.poly, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", timeout)

	case <-ctx.Done():
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
	}
}
