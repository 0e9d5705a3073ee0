package engine

// Frame is a full copy of the mutable match state taken just before a
// mutating command. Frames never share slices with the live match.
type Frame struct {
	State       MatchState `json:"state"`
	Live        Innings    `json:"live"`
	First       *Innings   `json:"first,omitempty"`
	CurrentOver []string   `json:"current_over"`
}

func (f Frame) clone() Frame {
	out := Frame{
		State:       f.State.clone(),
		Live:        f.Live.clone(),
		CurrentOver: cloneStrings(f.CurrentOver),
	}
	if f.First != nil {
		first := f.First.clone()
		out.First = &first
	}
	return out
}

// undoStack is a bounded LIFO of frames. When full, the oldest frame is dropped.
type undoStack struct {
	frames []Frame
	depth  int
}

func newUndoStack(depth int) *undoStack {
	return &undoStack{frames: []Frame{}, depth: depth}
}

func (s *undoStack) push(f Frame) {
	if s.depth > 0 && len(s.frames) >= s.depth {
		s.frames = append(s.frames[:0:0], s.frames[1:]...)
	}
	s.frames = append(s.frames, f)
}

func (s *undoStack) pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

func (s *undoStack) len() int {
	return len(s.frames)
}

func (s *undoStack) snapshot() []Frame {
	out := make([]Frame, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.clone()
	}
	return out
}

// frame captures the current match state.
func (m *Match) frame() Frame {
	f := Frame{
		State:       m.state,
		Live:        m.live,
		First:       m.first,
		CurrentOver: m.over,
	}
	return f.clone()
}

// restore replaces the match state with a frame.
func (m *Match) restore(f Frame) {
	f = f.clone()
	m.state = f.State
	m.live = f.Live
	m.first = f.First
	m.over = f.CurrentOver
}

// remember pushes the pre-command state. Called once per mutating command,
// after validation and before the first write.
func (m *Match) remember() {
	m.undo.push(m.frame())
}

// Undo reverts the last mutating command. It returns false, and changes
// nothing, when there is nothing left to revert or the match is complete: a
// result is final. Undoing while a dismissal is pending cancels it.
func (m *Match) Undo() bool {
	if m.state.MatchComplete {
		return false
	}
	f, ok := m.undo.pop()
	if !ok {
		return false
	}
	m.restore(f)
	return true
}

// UndoDepth is the number of commands that can currently be reverted.
func (m *Match) UndoDepth() int {
	return m.undo.len()
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
