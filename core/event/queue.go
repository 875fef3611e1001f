// Package event provides typed FIFO event queues that systems can share
// through a world's services. Events of each Go type get their own queue.
package event

import "reflect"

// Queue holds one FIFO per event type. It is not safe for concurrent use;
// like the rest of the runtime it belongs to the tick goroutine.
type Queue struct {
	queues map[reflect.Type]*fifo
}

// fifo stores *T values boxed as any so Front can hand out a stable
// pointer into the queue.
type fifo struct {
	items []any
	head  int
}

func NewQueue() *Queue {
	return &Queue{
		queues: make(map[reflect.Type]*fifo),
	}
}

func typeKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func (q *Queue) get(t reflect.Type, create bool) *fifo {
	if q.queues == nil {
		if !create {
			return nil
		}
		q.queues = make(map[reflect.Type]*fifo)
	}
	f := q.queues[t]
	if f == nil && create {
		f = &fifo{}
		q.queues[t] = f
	}
	return f
}

// Push appends ev to the back of the T queue.
func Push[T any](q *Queue, ev T) {
	f := q.get(typeKey[T](), true)
	f.items = append(f.items, &ev)
}

// Pop removes and returns the front of the T queue.
func Pop[T any](q *Queue) (T, bool) {
	var zero T
	f := q.get(typeKey[T](), false)
	if f == nil || f.head == len(f.items) {
		return zero, false
	}
	ev := *f.items[f.head].(*T)
	f.items[f.head] = nil
	f.head++
	if f.head == len(f.items) {
		f.items = f.items[:0]
		f.head = 0
	}
	return ev, true
}

// Peek returns the front of the T queue without removing it.
func Peek[T any](q *Queue) (T, bool) {
	var zero T
	f := q.get(typeKey[T](), false)
	if f == nil || f.head == len(f.items) {
		return zero, false
	}
	return *f.items[f.head].(*T), true
}

// Front returns a pointer to the front of the T queue so it can be edited
// in place, or nil when the queue is empty.
func Front[T any](q *Queue) *T {
	f := q.get(typeKey[T](), false)
	if f == nil || f.head == len(f.items) {
		return nil
	}
	return f.items[f.head].(*T)
}

// Len returns the number of queued T events.
func Len[T any](q *Queue) int {
	f := q.get(typeKey[T](), false)
	if f == nil {
		return 0
	}
	return len(f.items) - f.head
}

// Drain pops every queued T event in order and hands it to fn.
func Drain[T any](q *Queue, fn func(T)) int {
	n := 0
	for {
		ev, ok := Pop[T](q)
		if !ok {
			return n
		}
		fn(ev)
		n++
	}
}

// Reset drops every queued event of every type.
func (q *Queue) Reset() {
	for _, f := range q.queues {
		clear(f.items)
		f.items = f.items[:0]
		f.head = 0
	}
}
