package engine

import "strconv"

// MaxDigitCount is the number of digits the display can hold.
const MaxDigitCount = 12

// NoPoint marks a buffer without a decimal point.
const NoPoint = -1

// InputBuffer holds the number currently being typed. It is a plain value:
// copies never share digit storage.
type InputBuffer struct {
	digits   [MaxDigitCount]byte
	n        int
	point    int
	negative bool
}

// NewInputBuffer returns an empty, positive buffer with no decimal point.
func NewInputBuffer() InputBuffer {
	return InputBuffer{point: NoPoint}
}

// Reset empties the buffer.
func (b *InputBuffer) Reset() {
	*b = NewInputBuffer()
}

// Len returns the number of digits entered.
func (b InputBuffer) Len() int { return b.n }

// Empty reports whether no digits have been entered.
func (b InputBuffer) Empty() bool { return b.n == 0 }

// Full reports whether another digit would exceed MaxDigitCount.
func (b InputBuffer) Full() bool { return b.n >= MaxDigitCount }

// Point returns the decimal point index or NoPoint.
func (b InputBuffer) Point() int { return b.point }

// Negative reports the sign flag.
func (b InputBuffer) Negative() bool { return b.negative }

// Digits returns a copy of the entered digits.
func (b InputBuffer) Digits() string { return string(b.digits[:b.n]) }

// AppendDigit adds d to the end of the buffer. A lone "0" without a decimal
// point is replaced so the buffer never carries a leading zero. Callers check
// Full first; a full buffer ignores the digit.
func (b *InputBuffer) AppendDigit(d byte) {
	if b.n == 1 && b.digits[0] == '0' && b.point == NoPoint {
		b.digits[0] = d
		return
	}
	if b.Full() {
		return
	}
	b.digits[b.n] = d
	b.n++
}

// TogglePoint places, removes or seeds the decimal point.
func (b *InputBuffer) TogglePoint() {
	switch {
	case b.n == 0:
		b.digits[0] = '0'
		b.n = 1
		b.point = 1
	case b.point == b.n:
		b.point = NoPoint
	case b.point == NoPoint:
		b.point = b.n
	}
}

// ToggleSign flips the sign flag. Digits are not required.
func (b *InputBuffer) ToggleSign() {
	b.negative = !b.negative
}

// Render returns the canonical string shown on the display.
func (b InputBuffer) Render() string {
	out := make([]byte, 0, MaxDigitCount+3)
	if b.negative {
		out = append(out, '-')
	}
	if b.n == 0 {
		return string(append(out, '0'))
	}
	for i := 0; i < b.n; i++ {
		if i == b.point {
			out = append(out, '.')
		}
		out = append(out, b.digits[i])
	}
	if b.point == b.n {
		out = append(out, '.')
	}
	return string(out)
}

// Float parses the rendered buffer.
func (b InputBuffer) Float() float64 {
	v, err := strconv.ParseFloat(b.Render(), 64)
	if err != nil {
		// Render only ever produces digits, one point and a sign.
		return 0
	}
	return v
}

// bufferFromDecimal builds a buffer from an unsigned decimal string such as
// "12.5". The string must fit MaxDigitCount digits.
func bufferFromDecimal(s string, negative bool) InputBuffer {
	b := NewInputBuffer()
	b.negative = negative
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			b.point = b.n
			continue
		}
		b.digits[b.n] = s[i]
		b.n++
	}
	return b
}
