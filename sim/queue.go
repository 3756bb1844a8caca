// Implements the ReadyQueue, which holds every process eligible for the CPU,
// and the BlockedList, which tracks processes waiting on synchronous I/O.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue is an insertion-ordered queue of ready processes.
// FCFS and round robin consume it FIFO; SJF and priority scan it for the
// best candidate, so insertion order doubles as the tie-break order.
// Storage is a growable slice: enqueue never drops an entry.
type ReadyQueue struct {
	queue []*Process
}

// Enqueue adds a process to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(p *Process) {
	if p == nil {
		panic("Enqueue: p must not be nil")
	}
	rq.queue = append(rq.queue, p)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, p := range rq.queue {
		sb.WriteString(p.Label())
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of processes in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Peek returns the process at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Peek() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	return rq.queue[0]
}

// Dequeue removes and returns the process at the front of the queue.
// Returns nil if the queue is empty.
func (rq *ReadyQueue) Dequeue() *Process {
	if len(rq.queue) == 0 {
		return nil
	}
	p := rq.queue[0]
	rq.queue[0] = nil
	rq.queue = rq.queue[1:]
	return p
}

// Items returns the queue contents for iteration.
// The returned slice is the queue's internal storage -- callers within the
// sim package may iterate over it but MUST NOT append to or reslice it.
func (rq *ReadyQueue) Items() []*Process {
	return rq.queue
}

// Best scans the queue front to back and returns the first process for which
// no later process is strictly better under less. Returns nil on an empty queue.
// Only a strictly smaller key displaces the current pick, so ties go to the
// earliest inserted process.
func (rq *ReadyQueue) Best(less func(a, b *Process) bool) *Process {
	if less == nil {
		panic("Best: less must not be nil")
	}
	var best *Process
	for _, p := range rq.queue {
		if best == nil || less(p, best) {
			best = p
		}
	}
	return best
}

// Remove deletes p from the queue by identity, preserving the order of the rest.
// Reports whether p was present.
func (rq *ReadyQueue) Remove(p *Process) bool {
	for i, q := range rq.queue {
		if q == p {
			copy(rq.queue[i:], rq.queue[i+1:])
			rq.queue[len(rq.queue)-1] = nil
			rq.queue = rq.queue[:len(rq.queue)-1]
			return true
		}
	}
	return false
}

// Contains reports whether p is queued.
func (rq *ReadyQueue) Contains(p *Process) bool {
	for _, q := range rq.queue {
		if q == p {
			return true
		}
	}
	return false
}

// blockedEntry is one process waiting on I/O.
type blockedEntry struct {
	proc      *Process
	remaining int   // I/O ticks still to elapse
	since     int64 // first tick spent blocked
}

// BlockedList tracks processes suspended on I/O, in the order they blocked.
type BlockedList struct {
	entries []blockedEntry
}

// Block suspends p for duration ticks starting at tick since.
func (bl *BlockedList) Block(p *Process, duration int, since int64) {
	if p == nil {
		panic("Block: p must not be nil")
	}
	if duration < 1 {
		panic(fmt.Sprintf("Block: duration must be >= 1, got %d", duration))
	}
	bl.entries = append(bl.entries, blockedEntry{proc: p, remaining: duration, since: since})
}

// Len returns the number of blocked processes.
func (bl *BlockedList) Len() int {
	return len(bl.entries)
}

// Remaining returns the I/O countdown for p, or 0 when p is not blocked.
func (bl *BlockedList) Remaining(p *Process) int {
	for _, e := range bl.entries {
		if e.proc == p {
			return e.remaining
		}
	}
	return 0
}

// Advance accounts for tick now-1 having elapsed. Every process that was
// already blocked during that tick has its countdown decremented; those that
// reach zero are removed and returned in blocking order.
func (bl *BlockedList) Advance(now int64) []*Process {
	var released []*Process
	kept := bl.entries[:0]
	for _, e := range bl.entries {
		if e.since < now {
			e.remaining--
		}
		if e.remaining == 0 {
			released = append(released, e.proc)
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(bl.entries); i++ {
		bl.entries[i] = blockedEntry{}
	}
	bl.entries = kept
	return released
}
