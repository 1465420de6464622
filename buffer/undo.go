package buffer

import (
	"time"
	"unicode/utf8"
)

type OpType int

const (
	OpInsert OpType = iota
	OpDelete
)

// Operation is one primitive edit. Ops sharing a non-zero Group undo and
// redo as a unit: the line replacement the reindent command performs is a
// grouped delete+insert pair, and bursts of typing are batched into runs.
type Operation struct {
	Type   OpType
	Pos    Cursor
	Text   string
	Before Cursor // cursor position before the edit
	Time   time.Time
	Group  int // 0 = ungrouped
}

// UndoStack records operations in chronological order on both stacks;
// grouped operations are always contiguous. A typing run stays open in
// `run` and is sealed by anything that is not a continuation: a pause, a
// whitespace rune, a jump to another position, an explicit group, or an
// undo.
type UndoStack struct {
	undos []Operation
	redos []Operation

	nextGroup int
	run       int // open typing-run group, 0 when sealed
}

const undoGroupInterval = 300 * time.Millisecond

func NewUndoStack() *UndoStack {
	return &UndoStack{nextGroup: 1}
}

// Push records op, joining it to the open typing run when it continues
// one and sealing the run otherwise.
func (u *UndoStack) Push(op Operation) {
	op.Time = time.Now()

	if u.continuesRun(op) {
		prev := &u.undos[len(u.undos)-1]
		if u.run == 0 {
			u.run = u.NewGroup()
			prev.Group = u.run
		}
		op.Group = u.run
	} else {
		u.run = 0
	}

	u.undos = append(u.undos, op)
	u.redos = u.redos[:0]
}

// PushGrouped records op under an explicit group ID. Explicit groups never
// mix with typing runs, so any open run is sealed.
func (u *UndoStack) PushGrouped(op Operation, groupID int) {
	op.Time = time.Now()
	op.Group = groupID
	u.run = 0
	u.undos = append(u.undos, op)
	u.redos = u.redos[:0]
}

// NewGroup returns a fresh group ID for batching multiple operations as
// one undo step.
func (u *UndoStack) NewGroup() int {
	id := u.nextGroup
	u.nextGroup++
	return id
}

// continuesRun reports whether op extends the typing run ending at the top
// of the undo stack: a single non-whitespace rune inserted directly after
// the previous single-rune insert, within the grouping window. Whitespace
// seals the run on either side so undo stops at word boundaries.
func (u *UndoStack) continuesRun(op Operation) bool {
	if op.Type != OpInsert || !isRunRune(op.Text) || len(u.undos) == 0 {
		return false
	}
	prev := u.undos[len(u.undos)-1]
	if prev.Type != OpInsert || !isRunRune(prev.Text) {
		return false
	}
	// An ungrouped predecessor can start a run; a predecessor already in
	// an explicit group cannot.
	if u.run == 0 && prev.Group != 0 {
		return false
	}
	if op.Time.Sub(prev.Time) >= undoGroupInterval {
		return false
	}
	return op.Pos.Line == prev.Pos.Line && op.Pos.Col == prev.Pos.Col+len(prev.Text)
}

func isRunRune(text string) bool {
	if utf8.RuneCountInString(text) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return r != ' ' && r != '\t' && r != '\n'
}

func (u *UndoStack) CanUndo() bool { return len(u.undos) > 0 }
func (u *UndoStack) CanRedo() bool { return len(u.redos) > 0 }

// PopUndo removes the newest operation group from the undo stack, moves
// it to the redo stack, and returns it in chronological order.
func (u *UndoStack) PopUndo() ([]Operation, bool) {
	group, rest, ok := popGroup(u.undos)
	if !ok {
		return nil, false
	}
	u.undos = rest
	u.redos = append(u.redos, group...)
	u.run = 0
	return group, true
}

// PopRedo is the mirror image: the newest group moves back to the undo
// stack and comes back in chronological order.
func (u *UndoStack) PopRedo() ([]Operation, bool) {
	group, rest, ok := popGroup(u.redos)
	if !ok {
		return nil, false
	}
	u.redos = rest
	u.undos = append(u.undos, group...)
	return group, true
}

// popGroup splits the whole group at the top off a stack. An ungrouped
// operation is a group of one.
func popGroup(stack []Operation) (group, rest []Operation, ok bool) {
	if len(stack) == 0 {
		return nil, nil, false
	}
	start := len(stack) - 1
	if g := stack[start].Group; g != 0 {
		for start > 0 && stack[start-1].Group == g {
			start--
		}
	}
	group = append([]Operation(nil), stack[start:]...)
	return group, stack[:start], true
}
