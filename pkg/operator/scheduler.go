package operator

// Scheduler maintains a deduplicated ordered queue of conversation ids
// and hands them out round-robin. It is a pure in-memory structure
// accessed from the single control thread; a concurrent caller must add
// its own mutual exclusion.
type Scheduler struct {
	queue  []string
	cursor int
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Enqueue appends id at the tail unless it is already queued.
func (s *Scheduler) Enqueue(id string) {
	if s.indexOf(id) >= 0 {
		return
	}
	s.queue = append(s.queue, id)
}

// Next returns the conversation at the cursor and advances it
// circularly. ok is false when the queue is empty.
func (s *Scheduler) Next() (id string, ok bool) {
	if len(s.queue) == 0 {
		return "", false
	}
	if s.cursor >= len(s.queue) {
		s.cursor = 0
	}
	id = s.queue[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.queue)
	return id, true
}

// Remove deletes id from the queue if present, keeping the cursor
// inside the valid range so the item after the removed one is not
// skipped.
func (s *Scheduler) Remove(id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.queue = append(s.queue[:idx], s.queue[idx+1:]...)
	if len(s.queue) == 0 {
		s.cursor = 0
		return
	}
	if idx < s.cursor {
		s.cursor--
	}
	if s.cursor >= len(s.queue) {
		s.cursor = 0
	}
}

// Prioritize relocates each queued id in ids to the front, preserving
// the relative order of ids among themselves. Ids not already queued
// are ignored. The cursor is rewound so the prioritized conversations
// are handed out next.
func (s *Scheduler) Prioritize(ids []string) {
	moved := false
	for i := len(ids) - 1; i >= 0; i-- {
		idx := s.indexOf(ids[i])
		if idx < 0 {
			continue
		}
		id := s.queue[idx]
		s.queue = append(s.queue[:idx], s.queue[idx+1:]...)
		s.queue = append([]string{id}, s.queue...)
		moved = true
	}
	if moved {
		s.cursor = 0
	}
}

// Len returns the number of queued conversations.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Snapshot returns a copy of the queue in order.
func (s *Scheduler) Snapshot() []string {
	out := make([]string, len(s.queue))
	copy(out, s.queue)
	return out
}

func (s *Scheduler) indexOf(id string) int {
	for i, queued := range s.queue {
		if queued == id {
			return i
		}
	}
	return -1
}
