package vm

// Queue is a FIFO of machine values.
type Queue struct {
	items []int64
	head  int
	last  int64
	seen  bool
}

// Push appends values to the tail.
func (q *Queue) Push(values ...int64) {
	if len(values) == 0 {
		return
	}
	q.items = append(q.items, values...)
	q.last = values[len(values)-1]
	q.seen = true
}

// Pop removes and returns the head value.
func (q *Queue) Pop() (int64, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	v := q.items[q.head]
	q.head++
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	}
	return v, true
}

// Peek returns the head value without removing it.
func (q *Queue) Peek() (int64, bool) {
	if q.head >= len(q.items) {
		return 0, false
	}
	return q.items[q.head], true
}

// Len returns the number of queued values.
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Drain removes and returns every queued value.
func (q *Queue) Drain() []int64 {
	out := append([]int64(nil), q.items[q.head:]...)
	q.items = q.items[:0]
	q.head = 0
	return out
}

// Last returns the most recently pushed value, even if it was already popped.
func (q *Queue) Last() (int64, bool) {
	return q.last, q.seen
}

// Reset empties the queue and forgets the last value.
func (q *Queue) Reset() {
	*q = Queue{}
}

func (q *Queue) clone() Queue {
	c := *q
	c.items = append([]int64(nil), q.items[q.head:]...)
	c.head = 0
	return c
}
