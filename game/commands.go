package game

// Teleport moves the actor to a map position.
type Teleport struct {
	X, Y int
}

// CommandQueue is the channel actor commands travel through. Commands queued
// during a frame take effect at the start of the next one.
type CommandQueue struct {
	pending []Teleport
}

// NewCommandQueue creates an empty queue.
func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Teleport queues a teleport.
func (q *CommandQueue) Teleport(x, y int) {
	q.pending = append(q.pending, Teleport{X: x, Y: y})
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int { return len(q.pending) }

// Apply runs every queued command in order and empties the queue.
func (q *CommandQueue) Apply(fn func(Teleport)) {
	cmds := q.pending
	q.pending = nil
	for _, c := range cmds {
		fn(c)
	}
}
