package xmsg

// messageQueue is an unbounded FIFO of messages for one type name.
// Not safe for concurrent use; the Router guards it.
type messageQueue struct {
	items []*Message
	head  int
}

func (q *messageQueue) push(m *Message) {
	q.items = append(q.items, m)
}

func (q *messageQueue) pop() (*Message, bool) {
	if q.head >= len(q.items) {
		return nil, false
	}
	m := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return m, true
}

func (q *messageQueue) len() int {
	return len(q.items) - q.head
}
