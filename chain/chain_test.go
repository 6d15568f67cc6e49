package chain

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"math/rand"
	"testing"
	"testing/iotest"
)

// window returns the window whose word has the given high and low halves.
func window(key, value uint32) []byte {
	var buf [WindowSize]byte
	ByteOrder.PutUint64(buf[:], uint64(key)<<32|uint64(value))
	return buf[:]
}

func TestTransformSingleWindow(t *testing.T) {
	// Z85 "ag6PwXWf{g".
	data := []byte{0x1f, 0xb3, 0xd8, 0x1f, 0xb9, 0xb3, 0xd8, 0x1f}
	p, err := Transform(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, []byte("S")) {
		t.Errorf("Transform(%x) → %+q, expected %+q", data, p, "S")
	}
}

func TestStep(t *testing.T) {
	for _, test := range []struct {
		before   State
		window   []byte
		result   byte
		after    State
		expected error
	}{
		{State{1, 0}, window(0, 166), 83, State{83, 1}, nil},
		{State{1, 0}, window(0xdeadbeef, 0xdeadbeef^166), 83, State{83, 1}, nil},
		// The index is mixed in.
		{State{1, 5}, window(0, 166^5), 83, State{83, 6}, nil},
		// Only the low 8 bits of the quotient are kept.
		{State{1, 0}, window(0, 2*0x1ff), 0xff, State{0xff, 1}, nil},
		// Division truncates.
		{State{3, 0}, window(0, 6*10+5), 10, State{10, 1}, nil},
		{State{0, 7}, window(1, 2), 0, State{0, 7}, &DivisionByZeroError{Index: 7}},
	} {
		s := test.before
		b, err := s.Step(test.window)
		if test.expected != nil {
			var dz *DivisionByZeroError
			if !errors.As(err, &dz) || *dz != *test.expected.(*DivisionByZeroError) {
				t.Errorf("%+v Step(%x) → %v, expected %v", test.before, test.window, err, test.expected)
			}
		} else if err != nil || b != test.result {
			t.Errorf("%+v Step(%x) → (%v, %v), expected %v", test.before, test.window, b, err, test.result)
		}
		if s != test.after {
			t.Errorf("%+v Step(%x) → %+v, expected %+v", test.before, test.window, s, test.after)
		}
	}
}

func TestTransformTruncates(t *testing.T) {
	var data []byte
	data = append(data, window(0, 2*'h')...)
	data = append(data, window(0, 2*'h'*'i'^1)...)
	for extra := 0; extra < WindowSize; extra++ {
		input := append(append([]byte{}, data...), bytes.Repeat([]byte{0xaa}, extra)...)
		p, err := Transform(input)
		if err != nil || !bytes.Equal(p, []byte("hi")) {
			t.Errorf("%d trailing bytes → (%+q, %v), expected %+q", extra, p, err, "hi")
		}
	}
	for n := 0; n < WindowSize; n++ {
		p, err := Transform(make([]byte, n))
		if err != nil || len(p) != 0 {
			t.Errorf("%d bytes → (%x, %v), expected empty", n, p, err)
		}
	}
}

func TestTransformDivisionByZero(t *testing.T) {
	var data []byte
	data = append(data, window(0, 2*'a')...)
	// Recovers 0, so the next window cannot be divided.
	data = append(data, window(0x1234, 0x1234^1)...)
	data = append(data, window(0, 0)...)
	data = append(data, window(0, 0)...)
	p, err := Transform(data)
	var dz *DivisionByZeroError
	if !errors.As(err, &dz) {
		t.Fatalf("Transform → (%x, %v), expected DivisionByZeroError", p, err)
	}
	if dz.Index != 2 {
		t.Errorf("Index %d, expected 2", dz.Index)
	}
	if !bytes.Equal(p, []byte{'a', 0}) {
		t.Errorf("partial output %x, expected %x", p, []byte{'a', 0})
	}

	// A zero from the last window is not an error.
	p, err = Transform(data[:2*WindowSize])
	if err != nil || !bytes.Equal(p, []byte{'a', 0}) {
		t.Errorf("Transform → (%x, %v), expected %x", p, err, []byte{'a', 0})
	}
}

func TestTransformDeterministic(t *testing.T) {
	data := make([]byte, 64*WindowSize)
	rand.New(rand.NewSource(1)).Read(data)
	p1, err1 := Transform(data)
	p2, err2 := Transform(data)
	if !bytes.Equal(p1, p2) || (err1 == nil) != (err2 == nil) {
		t.Errorf("Transform not deterministic: (%x, %v) vs (%x, %v)", p1, err1, p2, err2)
	}
}

func TestChaining(t *testing.T) {
	plaintext := []byte("chained transform")
	data, err := Obfuscate(nil, plaintext, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatal(err)
	}

	// Replace window 3 so that it recovers the next byte value up.
	const k = 3
	altered := append([]byte{}, data...)
	mixed := (uint32(plaintext[k]) + 1) * 2 * uint32(plaintext[k-1])
	copy(altered[k*WindowSize:], window(0, mixed^k))

	// Later windows may run into a zero divisor; the bytes recovered up to
	// that point are still returned.
	p, _ := Transform(altered)
	if len(p) < k+2 {
		t.Fatalf("recovered only %+q", p)
	}
	if !bytes.Equal(p[:k], plaintext[:k]) {
		t.Errorf("windows before %d changed: %+q", k, p[:k])
	}
	if p[k] != plaintext[k]+1 {
		t.Errorf("window %d → %q, expected %q", k, p[k], plaintext[k]+1)
	}
	if p[k+1] == plaintext[k+1] {
		t.Errorf("window %d unchanged although its own bytes are", k+1)
	}
}

func TestObfuscateRoundtrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, plaintext := range [][]byte{
		{},
		[]byte("S"),
		[]byte("Hello, World"),
		{0xff, 0x01, 0x80, 0x00},
		bytes.Repeat([]byte{0xff}, 100),
	} {
		data, err := Obfuscate(nil, plaintext, rng)
		if err != nil {
			t.Fatalf("Obfuscate(%+q) → %v", plaintext, err)
		}
		if len(data) != WindowSize*len(plaintext) {
			t.Errorf("Obfuscate(%+q) → %d bytes", plaintext, len(data))
		}
		p, err := Transform(data)
		if err != nil || !bytes.Equal(p, plaintext) {
			t.Errorf("Transform(Obfuscate(%+q)) → (%+q, %v)", plaintext, p, err)
		}
	}
}

func TestObfuscateErrors(t *testing.T) {
	_, err := Obfuscate(nil, []byte("a\x00b"), rand.New(rand.NewSource(4)))
	if err != ZeroByteError(1) {
		t.Errorf("zero byte → %v, expected %v", err, ZeroByteError(1))
	}
	_, err = Obfuscate(nil, []byte("abc"), bytes.NewReader(make([]byte, 11)))
	if err != errShortRand {
		t.Errorf("short random source → %v, expected %v", err, errShortRand)
	}
}

func TestReader(t *testing.T) {
	plaintext := []byte("streamed through a reader")
	data, err := Obfuscate(nil, plaintext, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	data = append(data, 1, 2, 3)

	p, err := ioutil.ReadAll(NewReader(iotest.OneByteReader(bytes.NewReader(data))))
	if err != nil || !bytes.Equal(p, plaintext) {
		t.Errorf("ReadAll → (%+q, %v), expected %+q", p, err, plaintext)
	}

	r := NewReader(bytes.NewReader(append(window(0, 0), window(0, 0)...)))
	p, err = ioutil.ReadAll(r)
	var dz *DivisionByZeroError
	if !errors.As(err, &dz) || dz.Index != 1 || !bytes.Equal(p, []byte{0}) {
		t.Errorf("ReadAll → (%x, %v), expected DivisionByZeroError at 1", p, err)
	}
	// The error is sticky.
	if n, err := r.Read(make([]byte, 1)); n != 0 || !errors.As(err, &dz) {
		t.Errorf("Read after error → (%v, %v)", n, err)
	}
	if _, err := r.Read(make([]byte, 1)); err == io.EOF {
		t.Errorf("Read after error → EOF")
	}
}
