package mq

// Queue keeps pushed messages in order until the host takes them.
type Queue struct {
	messages []Message
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(m Message) {
	q.messages = append(q.messages, m)
}

// Take drains the queue.
func (q *Queue) Take() []Message {
	out := q.messages
	q.messages = nil
	return out
}

// Peek returns the queued messages without draining them.
func (q *Queue) Peek() []Message {
	return q.messages
}

func (q *Queue) Len() int {
	return len(q.messages)
}
