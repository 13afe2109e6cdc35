// Package engine implements the three-phase UP/PEER/DOWN propagation
// orchestrator described in spec.md §4.3, grounded on
// original_source/src/simulator.cpp's main loop. Concurrency follows §5:
// drains run in parallel within a phase step, sends are strictly
// sequential, and there is a happens-before barrier between phases.
package engine

import (
	"context"
	"time"

	"github.com/Emeline-1/asrel-sim/internal/asgraph"
	"github.com/Emeline-1/asrel-sim/internal/bgp"
	"go.uber.org/zap"
)

// PhaseObserver receives the duration of one whole phase ("up", "peer" or
// "down"), used to feed the
// ambient metrics stack (internal/metrics.PhaseDuration). nil is a valid,
// no-op observer.
type PhaseObserver func(phase string, d time.Duration)

// Engine orchestrates propagation over a fixed graph and parallel state
// array. Both are built once by the caller (graph load + scenario seeding)
// and never mutated structurally during Run (§3, §5).
type Engine struct {
	Graph      *asgraph.Graph
	States     []*bgp.State // indexed identically to Graph.Nodes
	Ranks      [][]uint32
	NumWorkers int
	Logger     *zap.Logger
	Observe    PhaseObserver
}

// New constructs an Engine with sane defaults: a no-op logger and observer
// if none are supplied, so tests can build an Engine without any ambient
// wiring.
func New(g *asgraph.Graph, states []*bgp.State, ranks [][]uint32, numWorkers int) *Engine {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Engine{
		Graph:      g,
		States:     states,
		Ranks:      ranks,
		NumWorkers: numWorkers,
		Logger:     zap.NewNop(),
	}
}

// Run drives the UP, PEER, and DOWN phases to a fixed point, in that order.
// It never errors: propagation is total over any acyclic input (§4.3); the
// caller is responsible for rejecting cyclic graphs before calling Run
// (§4.1, §8 property 4).
func (e *Engine) Run(ctx context.Context) error {
	if err := e.phaseUp(ctx); err != nil {
		return err
	}
	if err := e.phasePeer(ctx); err != nil {
		return err
	}
	if err := e.phaseDown(ctx); err != nil {
		return err
	}
	return nil
}

func (e *Engine) observe(phase string, start time.Time) {
	if e.Observe != nil {
		e.Observe(phase, time.Since(start))
	}
}

// phaseUp walks ranks 0..R-1 (bottom up, customers towards providers). At
// each rank: drain queues in parallel, then sequentially send each drained
// RIB to the node's providers tagged PROV.
func (e *Engine) phaseUp(ctx context.Context) error {
	start := time.Now()
	defer e.observe("up", start)

	for _, idxs := range e.Ranks {
		if err := parallelFor(ctx, idxs, e.NumWorkers, func(idx uint32) {
			e.States[idx].ProcessQueue(e.Graph.Nodes[idx].ASN)
		}); err != nil {
			return err
		}
		for _, idx := range idxs {
			e.sendTo(idx, e.Graph.Nodes[idx].Providers, bgp.PROV)
		}
	}
	return nil
}

// phasePeer sends every node's current RIB to its peers (tagged PEER)
// before any node drains, so peers observe each other's pre-phase state
// rather than a route forwarded as if it were the sender's own during this
// phase (§4.3).
func (e *Engine) phasePeer(ctx context.Context) error {
	start := time.Now()
	defer e.observe("peer", start)

	all := e.allIndices()
	for _, idx := range all {
		e.sendTo(idx, e.Graph.Nodes[idx].Peers, bgp.PEER)
	}
	return parallelFor(ctx, all, e.NumWorkers, func(idx uint32) {
		e.States[idx].ProcessQueue(e.Graph.Nodes[idx].ASN)
	})
}

// phaseDown walks ranks R-1..0 (top down, providers towards customers). At
// each rank: send first (tagged CUST), then drain, so a customer receives
// from its provider, drains, and is ready to forward further down at the
// next (lower) rank.
func (e *Engine) phaseDown(ctx context.Context) error {
	start := time.Now()
	defer e.observe("down", start)

	for r := len(e.Ranks) - 1; r >= 0; r-- {
		idxs := e.Ranks[r]
		for _, idx := range idxs {
			e.sendTo(idx, e.Graph.Nodes[idx].Customers, bgp.CUST)
		}
		if err := parallelFor(ctx, idxs, e.NumWorkers, func(idx uint32) {
			e.States[idx].ProcessQueue(e.Graph.Nodes[idx].ASN)
		}); err != nil {
			return err
		}
	}
	return nil
}

// sendTo exports every RIB entry of the node at fromIdx to each target
// index in targets, tagging each copy with rel and the sender's ASN as
// next-hop. Sends are always called from a single-threaded loop within a
// phase step (§4.3, §5): concurrent sends could race on a shared target's
// recv_queue, so this is the one place the scheduler forbids parallelism.
func (e *Engine) sendTo(fromIdx uint32, targets []uint32, rel bgp.Rel) {
	fromASN := e.Graph.Nodes[fromIdx].ASN
	fromState := e.States[fromIdx]
	for prefixID, ann := range fromState.RIB {
		for _, targetIdx := range targets {
			// Each target gets its own deep copy of the path (§5 memory
			// model): recv_queue entries must never alias another AS's RIB.
			exported := ann.Clone()
			exported.NextHop = fromASN
			exported.Rel = rel
			e.States[targetIdx].Receive(prefixID, exported)
		}
	}
}

func (e *Engine) allIndices() []uint32 {
	all := make([]uint32, len(e.Graph.Nodes))
	for i := range all {
		all[i] = uint32(i)
	}
	return all
}
