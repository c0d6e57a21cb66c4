// Package keymap binds keyboard events to calculator commands.
package keymap

import (
	"errors"
	"fmt"
	"strings"

	"go-chi-calculator/internal/engine"
)

// ErrUnboundKey is returned when no binding matches a key event.
var ErrUnboundKey = errors.New("unbound key")

// KeyEvent describes one key press as reported by a keyboard.
type KeyEvent struct {
	Key  string `json:"key"`
	Code string `json:"code,omitempty"`
	Alt  bool   `json:"alt,omitempty"`
}

// Binding matches key events. Empty Key or Code match anything; Alt set
// requires the modifier, Alt unset accepts either state.
type Binding struct {
	Key     string
	Code    string
	Alt     bool
	Command engine.Command
}

func (b Binding) matches(ev KeyEvent) bool {
	return (b.Key == "" || b.Key == ev.Key) &&
		(!b.Alt || ev.Alt) &&
		(b.Code == "" || b.Code == ev.Code)
}

// Default is the keypad layout. Order matters: the first match wins, so
// modifier bindings precede the plain ones they shadow.
var Default = []Binding{
	{Code: "KeyC", Alt: true, Command: engine.Memory(engine.MemClear)},
	{Code: "KeyR", Alt: true, Command: engine.Memory(engine.MemRecall)},
	{Key: "+", Alt: true, Command: engine.Memory(engine.MemAdd)},
	{Key: "-", Alt: true, Command: engine.Memory(engine.MemSub)},

	{Code: "KeyC", Command: engine.Clear()},
	{Key: "/", Alt: true, Command: engine.SquareRoot()},
	{Key: "*", Alt: true, Command: engine.Square()},
	{Key: "/", Command: engine.Op(engine.OpDiv)},
	{Key: "*", Command: engine.Op(engine.OpMul)},
	{Key: "-", Command: engine.Op(engine.OpSub)},
	{Key: "+", Command: engine.Op(engine.OpAdd)},
	{Key: "Enter", Command: engine.Op(engine.OpEquals)},

	{Key: "!", Command: engine.Sign()},
	{Key: ".", Command: engine.Point()},
	{Key: "0", Command: engine.Digit('0')},
	{Key: "1", Command: engine.Digit('1')},
	{Key: "2", Command: engine.Digit('2')},
	{Key: "3", Command: engine.Digit('3')},
	{Key: "4", Command: engine.Digit('4')},
	{Key: "5", Command: engine.Digit('5')},
	{Key: "6", Command: engine.Digit('6')},
	{Key: "7", Command: engine.Digit('7')},
	{Key: "8", Command: engine.Digit('8')},
	{Key: "9", Command: engine.Digit('9')},
}

// Lookup returns the command bound to ev in the default layout.
func Lookup(ev KeyEvent) (engine.Command, bool) {
	return LookupIn(Default, ev)
}

// LookupIn returns the command of the first binding in table matching ev.
func LookupIn(table []Binding, ev KeyEvent) (engine.Command, bool) {
	for _, b := range table {
		if b.matches(ev) {
			return b.Command, true
		}
	}
	return engine.Command{}, false
}

// Resolve maps every event through the default layout.
func Resolve(events []KeyEvent) ([]engine.Command, error) {
	cmds := make([]engine.Command, 0, len(events))
	for i, ev := range events {
		c, ok := Lookup(ev)
		if !ok {
			return nil, fmt.Errorf("%w at %d: %+v", ErrUnboundKey, i, ev)
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// ParseKeys turns terminal input into key events. Whitespace separates
// tokens; "enter" and "alt+<key>" are named tokens, anything else is read
// one character per key. Letters carry a "Key<Upper>" code.
func ParseKeys(input string) []KeyEvent {
	var events []KeyEvent
	for _, tok := range strings.Fields(input) {
		lower := strings.ToLower(tok)
		switch {
		case lower == "enter":
			events = append(events, KeyEvent{Key: "Enter"})
		case strings.HasPrefix(lower, "alt+") && len(tok) > len("alt+"):
			ev := charEvent(tok[len("alt+"):])
			ev.Alt = true
			events = append(events, ev)
		default:
			for _, r := range tok {
				events = append(events, charEvent(string(r)))
			}
		}
	}
	return events
}

func charEvent(s string) KeyEvent {
	ev := KeyEvent{Key: s}
	if len(s) == 1 {
		if c := s[0]; (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			ev.Code = "Key" + strings.ToUpper(s)
		}
	}
	return ev
}
