package checker

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Gate is an opaque payment-authorization collaborator. A check may be slow
// and is non-deterministic; the outcome is always one of a small closed set.
type Gate interface {
	Check(ctx context.Context, card Card, gateway string) (GateResult, error)
}

// Simulated gate outcome sets
var (
	approvedResponses = []string{
		"1000: Approved",
		"Auth Success",
	}
	declinedResponses = []string{
		"Insufficient Funds",
		"Card Declined",
		"Invalid Card",
		"Gateway Rejected: cvv",
	}
)

// SimulatedGate produces random authorization outcomes with configurable
// approval rate and latency bounds. It has no external effect.
type SimulatedGate struct {
	mu           sync.Mutex
	rng          *rand.Rand
	minLatency   time.Duration
	maxLatency   time.Duration
	approvalRate float64
	sleep        func(context.Context, time.Duration) error
}

// NewSimulatedGate creates a SimulatedGate with the given tuning
func NewSimulatedGate(minLatency, maxLatency time.Duration, approvalRate float64) *SimulatedGate {
	return &SimulatedGate{
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		minLatency:   minLatency,
		maxLatency:   maxLatency,
		approvalRate: approvalRate,
		sleep:        sleepContext,
	}
}

// Check simulates one authorization attempt against the named gateway
func (g *SimulatedGate) Check(ctx context.Context, card Card, gateway string) (GateResult, error) {
	g.mu.Lock()
	latency := g.minLatency
	if spread := g.maxLatency - g.minLatency; spread > 0 {
		latency += time.Duration(g.rng.Int63n(int64(spread)))
	}
	approved := g.rng.Float64() < g.approvalRate
	var response string
	if approved {
		response = approvedResponses[g.rng.Intn(len(approvedResponses))]
	} else {
		response = declinedResponses[g.rng.Intn(len(declinedResponses))]
	}
	g.mu.Unlock()

	if err := g.sleep(ctx, latency); err != nil {
		return GateResult{}, NewCheckErrorWithCause(ErrorGateFailure, "gate check interrupted", err)
	}

	return GateResult{Approved: approved, Response: response}, nil
}

// sleepContext waits for the duration or until the context is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
