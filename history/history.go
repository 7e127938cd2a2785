package history

// DefaultCapacity is the command stack's default bound (spec §4.6).
const DefaultCapacity = 50

// Stack is an ordered command list with an index pointing to the
// next-to-redo slot. Beyond Capacity the oldest entry is discarded.
type Stack struct {
	Capacity int
	commands []Command
	index    int // next-to-redo; commands[:index] have been applied
}

// NewStack allocates a command stack with the given capacity (0 or
// negative selects DefaultCapacity).
func NewStack(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{Capacity: capacity}
}

// Execute runs cmd, then pushes it onto the stack, truncating any
// redoable tail left over from a prior undo (spec §4.6).
func (s *Stack) Execute(cmd Command) {
	cmd.Execute()
	s.commands = append(s.commands[:s.index], cmd)
	s.index++
	if len(s.commands) > s.Capacity {
		overflow := len(s.commands) - s.Capacity
		s.commands = s.commands[overflow:]
		s.index -= overflow
	}
}

// Undo reverses the most recently executed command, if any.
func (s *Stack) Undo() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	s.commands[s.index].Undo()
	return true
}

// Redo re-applies the most recently undone command, if any.
func (s *Stack) Redo() bool {
	if s.index >= len(s.commands) {
		return false
	}
	s.commands[s.index].Execute()
	s.index++
	return true
}

// CanUndo reports whether Undo would have any effect.
func (s *Stack) CanUndo() bool { return s.index > 0 }

// CanRedo reports whether Redo would have any effect.
func (s *Stack) CanRedo() bool { return s.index < len(s.commands) }

// Len returns the number of commands currently retained.
func (s *Stack) Len() int { return len(s.commands) }
