package history

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// counterCmd is a minimal self-contained command: it only touches a
// pointer to a shared int, the same way AddLineCommand only touches ids.
type counterCmd struct {
	n  *int
	by int
}

func (c *counterCmd) Execute() { *c.n += c.by }
func (c *counterCmd) Undo()    { *c.n -= c.by }

func TestExecuteUndoRedoRoundTrip(tst *testing.T) {
	chk.PrintTitle("ExecuteUndoRedoRoundTrip")
	n := 0
	s := NewStack(0)
	s.Execute(&counterCmd{&n, 5})
	s.Execute(&counterCmd{&n, 2})
	if n != 7 {
		tst.Fatalf("expected n=7, got %d", n)
	}
	if !s.Undo() {
		tst.Fatal("expected Undo to succeed")
	}
	if n != 5 {
		tst.Fatalf("expected n=5 after undo, got %d", n)
	}
	if !s.Redo() {
		tst.Fatal("expected Redo to succeed")
	}
	if n != 7 {
		tst.Fatalf("expected n=7 after redo, got %d", n)
	}
}

func TestUndoRedoBoundaries(tst *testing.T) {
	chk.PrintTitle("UndoRedoBoundaries")
	n := 0
	s := NewStack(0)
	if s.Undo() {
		tst.Fatal("expected Undo on empty stack to fail")
	}
	if s.Redo() {
		tst.Fatal("expected Redo on empty stack to fail")
	}
	s.Execute(&counterCmd{&n, 1})
	if !s.Undo() {
		tst.Fatal("expected first Undo to succeed")
	}
	if s.Undo() {
		tst.Fatal("expected second Undo past the start to fail")
	}
	if !s.Redo() {
		tst.Fatal("expected Redo to succeed")
	}
	if s.Redo() {
		tst.Fatal("expected second Redo past the end to fail")
	}
}

func TestExecuteTruncatesRedoableTail(tst *testing.T) {
	chk.PrintTitle("ExecuteTruncatesRedoableTail")
	n := 0
	s := NewStack(0)
	s.Execute(&counterCmd{&n, 1})
	s.Execute(&counterCmd{&n, 10})
	s.Undo()
	if !s.CanRedo() {
		tst.Fatal("expected a redoable command after undo")
	}
	s.Execute(&counterCmd{&n, 100})
	if s.CanRedo() {
		tst.Fatal("expected the redoable tail to be discarded by a new Execute")
	}
	if n != 101 {
		tst.Fatalf("expected n=101, got %d", n)
	}
	if s.Len() != 2 {
		tst.Fatalf("expected 2 retained commands, got %d", s.Len())
	}
}

func TestCapacityTrimsOldestEntry(tst *testing.T) {
	chk.PrintTitle("CapacityTrimsOldestEntry")
	n := 0
	s := NewStack(3)
	for i := 0; i < 5; i++ {
		s.Execute(&counterCmd{&n, 1})
	}
	if s.Len() != 3 {
		tst.Fatalf("expected capacity to cap retained commands at 3, got %d", s.Len())
	}
	if n != 5 {
		tst.Fatalf("expected n=5, got %d", n)
	}
	// Only the 3 most recently executed commands remain undoable.
	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != 3 {
		tst.Fatalf("expected 3 undoable commands after trimming, got %d", undone)
	}
	if n != 2 {
		tst.Fatalf("expected n=2 after undoing the 3 retained commands, got %d", n)
	}
}

func TestDefaultCapacityUsedWhenNonPositive(tst *testing.T) {
	chk.PrintTitle("DefaultCapacityUsedWhenNonPositive")
	if NewStack(0).Capacity != DefaultCapacity {
		tst.Fatal("expected capacity 0 to select DefaultCapacity")
	}
	if NewStack(-1).Capacity != DefaultCapacity {
		tst.Fatal("expected negative capacity to select DefaultCapacity")
	}
}
