// Package history implements the undo/redo command stack (spec §4.6):
// a capacity-bounded, append-only list of executed commands with an
// index pointing to the next-to-redo entry. Grounded on
// msolid/driver.go's Driver.Res/Driver.precor append-only result
// history, generalized from "keep every stress/ivs state for plotting"
// to "keep every command for undo/redo, truncating the discarded tail".
package history

// Command is one undoable action. Implementations must be
// self-contained — no aliased mutable references to sketch/tree state
// beyond ids (spec §4.6), so Undo/Redo remain valid after arbitrary
// other commands have run in between.
type Command interface {
	Execute()
	Undo()
}
