// Package workerpool implements the affinity-partitioned worker pool the
// coordinator drives: each organism is pinned to worker id % workerCount for
// its lifetime, and every message addressed to that organism executes on
// that one worker, serially, in arrival order. Messages for different
// organisms run in parallel when pinned to different workers. Workers never
// block on one another.
package workerpool

import (
	"github.com/pkg/errors"

	"github.com/cainem/hill-descent-sub001/organism"
)

// task is one unit of work routed to a worker's mailbox: either registering
// a new organism, removing one, or invoking fn against the organism
// currently stored under id.
type task struct {
	id       uint64
	register *organism.Organism // non-nil: store this organism under id
	remove   bool               // true: delete id from this worker's map
	fn       func(o *organism.Organism)
}

// Pool is a fixed-size set of workers, each with its own mailbox channel and
// its own private map of organisms pinned to it. No locks guard the maps:
// only the owning worker goroutine ever touches its own map.
type Pool struct {
	workerCount int
	mailboxes   []chan task
	stop        chan struct{}
}

// New starts workerCount worker goroutines. Call Close when the pool is no
// longer needed to stop them.
func New(workerCount int) (*Pool, error) {
	if workerCount <= 0 {
		return nil, errors.Errorf("workerpool: worker count must be positive, got %d", workerCount)
	}
	p := &Pool{
		workerCount: workerCount,
		mailboxes:   make([]chan task, workerCount),
		stop:        make(chan struct{}),
	}
	for i := 0; i < workerCount; i++ {
		p.mailboxes[i] = make(chan task, 256)
		go p.runWorker(i)
	}
	return p, nil
}

// WorkerCount returns the number of workers, i.e. the pinning modulus.
func (p *Pool) WorkerCount() int {
	return p.workerCount
}

// WorkerFor returns the worker index organism id is pinned to.
func (p *Pool) WorkerFor(id uint64) int {
	return int(id % uint64(p.workerCount))
}

func (p *Pool) runWorker(idx int) {
	organisms := make(map[uint64]*organism.Organism)
	mailbox := p.mailboxes[idx]
	for {
		select {
		case t, ok := <-mailbox:
			if !ok {
				return
			}
			switch {
			case t.register != nil:
				organisms[t.id] = t.register
			case t.remove:
				delete(organisms, t.id)
			default:
				t.fn(organisms[t.id])
			}
		case <-p.stop:
			return
		}
	}
}

// Register pins a newly created organism to its worker and stores it in
// that worker's private map. Blocks until the registration is applied.
func (p *Pool) Register(o *organism.Organism) {
	idx := p.WorkerFor(o.ID)
	reply := make(chan struct{})
	p.mailboxes[idx] <- task{
		id:       o.ID,
		register: o,
		fn:       nil,
	}
	p.mailboxes[idx] <- task{id: o.ID, fn: func(*organism.Organism) { close(reply) }}
	<-reply
}

// Remove unpins an organism, releasing its per-worker state. Blocks until
// the removal is applied.
func (p *Pool) Remove(id uint64) {
	idx := p.WorkerFor(id)
	reply := make(chan struct{})
	p.mailboxes[idx] <- task{id: id, remove: true}
	p.mailboxes[idx] <- task{id: id, fn: func(*organism.Organism) { close(reply) }}
	<-reply
}

// Dispatch enqueues fn to run against the organism stored under id, on that
// organism's pinned worker, in arrival order relative to every other
// Dispatch/Register/Remove call made for the same id. Dispatch itself
// returns as soon as the task is enqueued; fn runs asynchronously. Callers
// that need the result typically close over a reply channel in fn.
func (p *Pool) Dispatch(id uint64, fn func(o *organism.Organism)) {
	idx := p.WorkerFor(id)
	p.mailboxes[idx] <- task{id: id, fn: fn}
}

// Close stops every worker goroutine. The pool must not be used afterward.
func (p *Pool) Close() {
	close(p.stop)
}
