package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCommand is returned by ParseCommand for tokens that name no key.
var ErrUnknownCommand = errors.New("unknown command")

// Operator is a binary operator key, or Equals.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpEquals
)

// Symbol returns the keypad caption used in history.
func (op Operator) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "−"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	case OpEquals:
		return "="
	}
	return ""
}

func (op Operator) binary() bool {
	return op >= OpAdd && op <= OpDiv
}

func (op Operator) apply(a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	}
	return b
}

// MemoryOp selects one of the memory keys.
type MemoryOp int

const (
	MemClear MemoryOp = iota
	MemRecall
	MemAdd
	MemSub
)

func (op MemoryOp) String() string {
	switch op {
	case MemClear:
		return "MC"
	case MemRecall:
		return "MR"
	case MemAdd:
		return "M+"
	case MemSub:
		return "M-"
	}
	return fmt.Sprintf("MemoryOp(%d)", int(op))
}

// Kind identifies which engine entry point a Command invokes.
type Kind int

const (
	KindClear Kind = iota
	KindDigit
	KindPoint
	KindSign
	KindOperator
	KindSquare
	KindSquareRoot
	KindMemory
)

// Command is one key press.
type Command struct {
	Kind     Kind
	Digit    byte
	Operator Operator
	Memory   MemoryOp
}

// Constructors for the keys.
func Clear() Command { return Command{Kind: KindClear} }
func Digit(d byte) Command { return Command{Kind: KindDigit, Digit: d} }
func Point() Command { return Command{Kind: KindPoint} }
func Sign() Command { return Command{Kind: KindSign} }
func Op(op Operator) Command { return Command{Kind: KindOperator, Operator: op} }
func Square() Command { return Command{Kind: KindSquare} }
func SquareRoot() Command { return Command{Kind: KindSquareRoot} }
func Memory(op MemoryOp) Command { return Command{Kind: KindMemory, Memory: op} }

// String returns the keypad caption of the command.
func (c Command) String() string {
	switch c.Kind {
	case KindClear:
		return "C"
	case KindDigit:
		return string(c.Digit)
	case KindPoint:
		return "."
	case KindSign:
		return "±"
	case KindOperator:
		return c.Operator.Symbol()
	case KindSquare:
		return "x²"
	case KindSquareRoot:
		return "√"
	case KindMemory:
		return c.Memory.String()
	}
	return fmt.Sprintf("Command(%d)", int(c.Kind))
}

var commandAliases = map[string]Command{
	"c":      Clear(),
	"clear":  Clear(),
	".":      Point(),
	"point":  Point(),
	"±":      Sign(),
	"+/-":    Sign(),
	"sign":   Sign(),
	"+":      Op(OpAdd),
	"add":    Op(OpAdd),
	"-":      Op(OpSub),
	"−":      Op(OpSub),
	"sub":    Op(OpSub),
	"*":      Op(OpMul),
	"×":      Op(OpMul),
	"mul":    Op(OpMul),
	"/":      Op(OpDiv),
	"÷":      Op(OpDiv),
	"div":    Op(OpDiv),
	"=":      Op(OpEquals),
	"equals": Op(OpEquals),
	"x²":     Square(),
	"sqr":    Square(),
	"square": Square(),
	"√":      SquareRoot(),
	"sqrt":   SquareRoot(),
	"mc":     Memory(MemClear),
	"mr":     Memory(MemRecall),
	"m+":     Memory(MemAdd),
	"m-":     Memory(MemSub),
}

// ParseCommand maps a keypad caption or alias ("7", "+", "×", "sqrt", "M+")
// to a Command.
func ParseCommand(token string) (Command, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if len(t) == 1 && t[0] >= '0' && t[0] <= '9' {
		return Digit(t[0]), nil
	}
	if c, ok := commandAliases[t]; ok {
		return c, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
}

// ParseCommands parses every token, stopping at the first unknown one.
func ParseCommands(tokens []string) ([]Command, error) {
	cmds := make([]Command, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCommand(tok)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}
