package sim

// history is a fixed-capacity ring of the most recent states.
type history struct {
	buf  []*State
	head int
	n    int
}

func newHistory(capacity int) *history {
	return &history{buf: make([]*State, capacity)}
}

func (h *history) Push(s *State) {
	h.buf[h.head] = s
	h.head = (h.head + 1) % len(h.buf)
	if h.n < len(h.buf) {
		h.n++
	}
}

func (h *history) Len() int { return h.n }

// States returns the retained states, oldest first.
func (h *history) States() []*State {
	out := make([]*State, 0, h.n)
	start := (h.head - h.n + len(h.buf)) % len(h.buf)
	for i := 0; i < h.n; i++ {
		out = append(out, h.buf[(start+i)%len(h.buf)])
	}
	return out
}

// Back returns the state k steps before the newest, or nil.
func (h *history) Back(k int) *State {
	if k < 0 || k >= h.n {
		return nil
	}
	return h.buf[(h.head-1-k+2*len(h.buf))%len(h.buf)]
}
