package hammer

// retryQueue holds unmatched columns in the order they became unmatched.
// A column is present at most once.
type retryQueue struct {
	order   []int
	present []bool
}

func newRetryQueue(width int) *retryQueue {
	return &retryQueue{
		order:   make([]int, 0, width),
		present: make([]bool, width),
	}
}

func (q *retryQueue) len() int { return len(q.order) }

func (q *retryQueue) contains(col int) bool { return q.present[col] }

// push appends col unless it is already waiting.
func (q *retryQueue) push(col int) bool {
	if q.present[col] {
		return false
	}
	q.present[col] = true
	q.order = append(q.order, col)
	return true
}

// pop removes and returns the oldest column. The queue must not be empty.
func (q *retryQueue) pop() int {
	col := q.order[0]
	q.order = q.order[1:]
	q.present[col] = false
	return col
}

// remove drops col wherever it is, keeping the order of the rest.
func (q *retryQueue) remove(col int) {
	if !q.present[col] {
		return
	}
	q.present[col] = false
	for i, c := range q.order {
		if c == col {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}

// snapshot returns the waiting columns, oldest first.
func (q *retryQueue) snapshot() []int {
	out := make([]int, len(q.order))
	copy(out, q.order)
	return out
}
