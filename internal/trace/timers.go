package trace

import (
	"container/heap"
	"time"

	"github.com/dop251/goja"
)

type timer struct {
	id       int64
	due      time.Duration
	seq      uint64
	interval time.Duration
	repeat   bool
	fn       goja.Callable
	args     []goja.Value
	cleared  bool
	index    int
}

// timerQueue orders timers by due time, then by the order they were
// scheduled.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// timers is the macrotask side of the loop.
type timers struct {
	queue  timerQueue
	byID   map[int64]*timer
	nextID int64
	seq    uint64
	now    time.Duration
}

func newTimers() *timers {
	return &timers{byID: make(map[int64]*timer)}
}

func (ts *timers) schedule(fn goja.Callable, delay time.Duration, repeat bool, args []goja.Value) *timer {
	if delay < 0 {
		delay = 0
	}
	ts.nextID++
	ts.seq++
	t := &timer{
		id:       ts.nextID,
		due:      ts.now + delay,
		seq:      ts.seq,
		interval: delay,
		repeat:   repeat,
		fn:       fn,
		args:     args,
	}
	ts.byID[t.id] = t
	heap.Push(&ts.queue, t)
	return t
}

func (ts *timers) reschedule(t *timer) {
	ts.seq++
	t.due = ts.now + t.interval
	t.seq = ts.seq
	heap.Push(&ts.queue, t)
}

func (ts *timers) clear(id int64) bool {
	t, ok := ts.byID[id]
	if !ok || t.cleared {
		return false
	}
	t.cleared = true
	delete(ts.byID, id)
	if t.index >= 0 {
		heap.Remove(&ts.queue, t.index)
	}
	return true
}

// next pops the earliest live timer and advances the virtual clock to it.
func (ts *timers) next() (*timer, bool) {
	for ts.queue.Len() > 0 {
		t := heap.Pop(&ts.queue).(*timer)
		if t.cleared {
			continue
		}
		if t.due > ts.now {
			ts.now = t.due
		}
		if !t.repeat {
			delete(ts.byID, t.id)
		}
		return t, true
	}
	return nil, false
}

func (ts *timers) pending() int {
	return ts.queue.Len()
}
