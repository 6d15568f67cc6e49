// Package chain implements a chained, order-dependent byte transform that
// recovers one plaintext byte from each 8-byte window of its input.
//
// Each window is read as a 64-bit word in ByteOrder. The high and low 32-bit
// halves are XORed together and with the window index, and the result is
// divided by twice the previously recovered byte (1 before the first window).
// The low 8 bits of the quotient are the recovered byte. Because every step
// depends on the byte before it, the transform runs strictly in sequence.
package chain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// WindowSize is the number of input bytes consumed per output byte.
const WindowSize = 8

// ByteOrder is the byte order in which a window is read as a 64-bit word.
var ByteOrder = binary.LittleEndian

// DivisionByZeroError is returned when the previously recovered byte is 0,
// which makes the divisor for the window at Index zero.
type DivisionByZeroError struct {
	Index uint32
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero at window %d", e.Index)
}

// State is the running state carried from one window to the next.
type State struct {
	// Prev is the byte recovered from the previous window, widened to 32
	// bits.
	Prev uint32
	// Index is the position of the next window.
	Index uint32
}

// NewState returns the state before the first window.
func NewState() State {
	return State{Prev: 1, Index: 0}
}

// Step recovers the byte from one window, which must be at least WindowSize
// bytes long, and advances the state. On error the state is left unchanged.
func (s *State) Step(window []byte) (byte, error) {
	word := ByteOrder.Uint64(window[:WindowSize])
	key := uint32(word >> 32)
	mixed := uint32(word) ^ key
	mixed ^= s.Index
	divisor := 2 * s.Prev
	if divisor == 0 {
		return 0, &DivisionByZeroError{Index: s.Index}
	}
	b := byte(mixed / divisor)
	s.Prev = uint32(b)
	s.Index++
	return b, nil
}

// Transform returns one byte for every complete window of data. Trailing bytes
// that do not fill a window are ignored. If the transform cannot continue, it
// returns the bytes recovered so far along with a *DivisionByZeroError.
func Transform(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)/WindowSize)
	state := NewState()
	for len(data) >= WindowSize {
		b, err := state.Step(data)
		if err != nil {
			return out, err
		}
		out = append(out, b)
		data = data[WindowSize:]
	}
	return out, nil
}

// Reader recovers bytes from windows read from an underlying io.Reader.
type Reader struct {
	r     io.Reader
	state State
	err   error
}

// NewReader returns a Reader whose output is the Transform of everything read
// from r. An incomplete final window is ignored.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, state: NewState()}
}

// Read implements the io.Reader interface for Reader.
func (r *Reader) Read(p []byte) (int, error) {
	var window [WindowSize]byte
	n := 0
	for n < len(p) && r.err == nil {
		_, err := io.ReadFull(r.r, window[:])
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil {
			r.err = err
			break
		}
		b, err := r.state.Step(window[:])
		if err != nil {
			r.err = err
			break
		}
		p[n] = b
		n++
	}
	if n > 0 {
		return n, nil
	}
	return 0, r.err
}

// ZeroByteError is returned by Obfuscate for a zero byte that is followed by
// more input. The value is the index of the zero byte.
type ZeroByteError int

func (e ZeroByteError) Error() string {
	return fmt.Sprintf("zero byte at index %d is not last", int(e))
}

var errShortRand = errors.New("short read from random source")

// Obfuscate appends to dst the windows that Transform maps back to plaintext,
// and returns the extended slice. The high half of every word is read from
// rand. A zero byte may appear only at the end of plaintext, because the
// window after it could not be recovered.
func Obfuscate(dst, plaintext []byte, rand io.Reader) ([]byte, error) {
	keys := make([]byte, 4*len(plaintext))
	if _, err := io.ReadFull(rand, keys); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			err = errShortRand
		}
		return dst, err
	}
	for i, b := range plaintext {
		if b == 0 && i != len(plaintext)-1 {
			return dst, ZeroByteError(i)
		}
	}

	state := NewState()
	var window [WindowSize]byte
	for i, b := range plaintext {
		key := binary.LittleEndian.Uint32(keys[4*i:])
		mixed := uint32(b) * 2 * state.Prev
		value := mixed ^ state.Index ^ key
		ByteOrder.PutUint64(window[:], uint64(key)<<32|uint64(value))
		dst = append(dst, window[:]...)
		state.Prev = uint32(b)
		state.Index++
	}
	return dst, nil
}
