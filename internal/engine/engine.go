// Package engine implements the keypad calculator: an input buffer, value
// normalization for a fixed-width display, and the operator chaining and
// memory protocols. An Engine is not safe for concurrent use; callers
// serialize commands.
package engine

import (
	"math"
	"strings"
)

// mode is the display state of the engine. Exactly one of the committed
// value or an entry buffer is authoritative for the display.
type mode interface {
	buffer() InputBuffer
}

// idleMode follows Clear: nothing typed, committed value zero.
type idleMode struct{}

// enteringMode holds a number being typed.
type enteringMode struct{ buf InputBuffer }

// resultMode shows the committed value. buf mirrors it and is empty when
// the value is not finite.
type resultMode struct{ buf InputBuffer }

func (idleMode) buffer() InputBuffer { return NewInputBuffer() }
func (m enteringMode) buffer() InputBuffer { return m.buf }
func (m resultMode) buffer() InputBuffer { return m.buf }

// Engine is a keypad calculator.
type Engine struct {
	mode    mode
	value   float64
	pending Operator

	// last binary operation, replayed by a repeated equals
	lastOp      Operator
	lastOperand float64

	memory       float64
	memoryActive bool

	history string
}

// Snapshot is the observable state after a command.
type Snapshot struct {
	Display      string
	History      string
	MemoryActive bool
	Locked       bool
	Editing      bool
	Pending      Operator
	Value        float64
}

// New returns a cleared engine with an empty memory register.
func New() *Engine {
	e := &Engine{}
	e.Clear()
	return e
}

// Clear resets the value subsystem. Memory is kept.
func (e *Engine) Clear() {
	e.mode = idleMode{}
	e.value = 0
	e.pending = OpNone
	e.lastOp = OpNone
	e.lastOperand = 0
	e.history = ""
}

// Digit types d. It reports false when the engine is locked, the buffer is
// full, or d is not a decimal digit.
func (e *Engine) Digit(d byte) bool {
	if d < '0' || d > '9' || !e.Valid() {
		return false
	}

	m, entering := e.mode.(enteringMode)
	if !entering {
		m.buf = NewInputBuffer()
	} else if m.buf.Full() {
		return false
	}

	m.buf.AppendDigit(d)
	e.mode = m
	return true
}

// Point toggles the decimal point, starting a fresh "0." entry when no
// number is being typed.
func (e *Engine) Point() bool {
	if !e.Valid() {
		return false
	}

	m, entering := e.mode.(enteringMode)
	if !entering {
		m.buf = NewInputBuffer()
	}

	m.buf.TogglePoint()
	e.mode = m
	return true
}

// Sign toggles the sign of the displayed number and continues editing it.
func (e *Engine) Sign() bool {
	if !e.Valid() {
		return false
	}

	buf := e.mode.buffer()
	buf.ToggleSign()
	e.mode = enteringMode{buf: buf}
	return true
}

// Operator presses a binary operator or equals.
//
// A pending binary operator is applied once a second operand has been typed.
// Without a pending operator, or after equals, the displayed number becomes
// the left operand. Pressing equals after equals replays the last binary
// operation against the displayed number.
func (e *Engine) Operator(op Operator) bool {
	if !op.binary() && op != OpEquals {
		return false
	}
	if !e.Valid() {
		return false
	}

	m, entering := e.mode.(enteringMode)

	switch {
	case e.pending.binary() && entering:
		operand := m.buf.Float()
		e.lastOp, e.lastOperand = e.pending, operand
		e.setValue(e.pending.apply(e.value, operand))
		e.history += FormatNumber(operand) + op.Symbol()
		if op == OpEquals {
			e.history += FormatNumber(e.value)
		}

	case e.pending == OpNone || (e.pending == OpEquals && op != OpEquals):
		e.setValue(e.operand())
		e.history = FormatNumber(e.value) + op.Symbol()

	case e.pending == OpEquals:
		left := e.operand()
		if !e.lastOp.binary() {
			e.setValue(left)
			e.history = FormatNumber(e.value) + op.Symbol()
			break
		}
		e.setValue(e.lastOp.apply(left, e.lastOperand))
		e.history = FormatNumber(left) + e.lastOp.Symbol() + FormatNumber(e.lastOperand) +
			op.Symbol() + FormatNumber(e.value)

	default:
		// operator pressed again before a second operand: replace it; a bare
		// equals keeps the history as typed
		if op.binary() && strings.HasSuffix(e.history, e.pending.Symbol()) {
			e.history = strings.TrimSuffix(e.history, e.pending.Symbol()) + op.Symbol()
		}
	}

	e.pending = op
	return true
}

// Square commits the square of the displayed number and forgets the
// operation a repeated equals would replay.
func (e *Engine) Square() bool {
	if !e.Valid() {
		return false
	}

	x := e.operand()
	e.setValue(x * x)
	e.history = FormatNumber(x) + "²=" + FormatNumber(e.value)
	e.pending = OpNone
	e.lastOp, e.lastOperand = OpNone, 0
	return true
}

// SquareRoot commits the square root of the displayed number. Negative
// operands give NaN. Like Square it ends any equals replay.
func (e *Engine) SquareRoot() bool {
	if !e.Valid() {
		return false
	}

	x := e.operand()
	e.setValue(math.Sqrt(x))
	e.history = "√" + FormatNumber(x) + "=" + FormatNumber(e.value)
	e.pending = OpNone
	e.lastOp, e.lastOperand = OpNone, 0
	return true
}

// Memory runs a memory key. Memory keys bypass the lockout and leave the
// pending operator and the editing state alone.
//
// MR commits the register as the value. While a number is being typed the
// recalled number replaces it and stays editable.
func (e *Engine) Memory(op MemoryOp) bool {
	switch op {
	case MemClear:
		e.memory = 0
		e.memoryActive = false
	case MemRecall:
		if _, entering := e.mode.(enteringMode); entering {
			value, buf := normalize(e.memory)
			e.value = value
			e.mode = enteringMode{buf: buf}
			break
		}
		e.setValue(e.memory)
	case MemAdd:
		e.memory += e.operand()
		e.memoryActive = true
	case MemSub:
		e.memory -= e.operand()
		e.memoryActive = true
	default:
		return false
	}
	return true
}

// Apply dispatches c to the matching entry point.
func (e *Engine) Apply(c Command) bool {
	switch c.Kind {
	case KindClear:
		e.Clear()
		return true
	case KindDigit:
		return e.Digit(c.Digit)
	case KindPoint:
		return e.Point()
	case KindSign:
		return e.Sign()
	case KindOperator:
		return e.Operator(c.Operator)
	case KindSquare:
		return e.Square()
	case KindSquareRoot:
		return e.SquareRoot()
	case KindMemory:
		return e.Memory(c.Memory)
	}
	return false
}

// Valid reports whether the engine accepts input: something has been typed
// or the committed value is finite. After an overflow or NaN result only
// Clear and the memory keys are accepted.
func (e *Engine) Valid() bool {
	return !e.mode.buffer().Empty() || isFinite(e.value)
}

// Display returns the number to render.
func (e *Engine) Display() string {
	switch m := e.mode.(type) {
	case enteringMode:
		if m.buf.Empty() && !isFinite(e.value) {
			return FormatNumber(e.value)
		}
		return m.buf.Render()
	case resultMode:
		if m.buf.Empty() {
			return FormatNumber(e.value)
		}
		return m.buf.Render()
	}
	return "0"
}

// History returns the annotated trail of the current expression.
func (e *Engine) History() string { return e.history }

// MemoryActive reports whether the memory indicator is lit.
func (e *Engine) MemoryActive() bool { return e.memoryActive }

// Value returns the committed value.
func (e *Engine) Value() float64 { return e.value }

// Editing reports whether a number is being typed.
func (e *Engine) Editing() bool {
	_, ok := e.mode.(enteringMode)
	return ok
}

// Snapshot captures every observable at once.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Display:      e.Display(),
		History:      e.history,
		MemoryActive: e.memoryActive,
		Locked:       !e.Valid(),
		Editing:      e.Editing(),
		Pending:      e.pending,
		Value:        e.value,
	}
}

// operand is the number the display currently stands for.
func (e *Engine) operand() float64 {
	switch m := e.mode.(type) {
	case enteringMode:
		return m.buf.Float()
	case resultMode:
		return e.value
	}
	return 0
}

// setValue normalizes v and commits it as the displayed result.
func (e *Engine) setValue(v float64) {
	value, buf := normalize(v)
	e.value = value
	e.mode = resultMode{buf: buf}
}
