/*
Package z85 implements the Z85 encoding, the base-85 variant of ZeroMQ RFC 32
(https://rfc.zeromq.org/spec/32/). Z85 uses an alphabet of 85 printable ASCII
characters that avoids quotes, backslash, and comma, so that encoded text can
be embedded in source code and markup without escaping.

Every group of 4 bytes is treated as a big-endian 32-bit integer and written as
5 base-85 digits, most significant digit first. Strict Z85 therefore deals only
in inputs whose length is a multiple of 4 (binary) or 5 (text). DecodePadded
and EncodePadded additionally accept a short final group, in the manner of
Adobe ascii85: a final group of k symbols (2 ≤ k ≤ 4) stands for k−1 bytes.
*/
package z85

import (
	"errors"
	"strconv"
)

const alphabet = "0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	".-:+=^!/*?&<>()[]{}@%$#"

// invalid marks a byte that is not in the alphabet in decodeMap.
const invalid = 0xff

var decodeMap [256]byte

func init() {
	for i := range decodeMap {
		decodeMap[i] = invalid
	}
	for i := 0; i < len(alphabet); i++ {
		decodeMap[alphabet[i]] = byte(i)
	}
}

// InvalidLengthError reports an input whose length cannot be divided into
// groups. The value is the length of the input.
type InvalidLengthError int

func (e InvalidLengthError) Error() string {
	return "z85: invalid input length " + strconv.Itoa(int(e))
}

// InvalidByteError reports a byte outside the Z85 alphabet.
type InvalidByteError struct {
	Offset int
	Byte   byte
}

func (e InvalidByteError) Error() string {
	return "z85: invalid byte 0x" + strconv.FormatUint(uint64(e.Byte), 16) +
		" at offset " + strconv.Itoa(e.Offset)
}

// InvalidChunkError reports a 5-symbol group whose value does not fit in 32
// bits. The value is the offset of the first symbol of the group.
type InvalidChunkError int

func (e InvalidChunkError) Error() string {
	return "z85: group at offset " + strconv.Itoa(int(e)) + " overflows 32 bits"
}

// ErrInvalidTail is returned by DecodePadded when the final partial group does
// not encode a valid remainder.
var ErrInvalidTail = errors.New("z85: invalid final partial group")

// DecodedLen returns the number of bytes produced by strictly decoding n
// symbols.
func DecodedLen(n int) int { return n / 5 * 4 }

// EncodedLen returns the number of symbols produced by strictly encoding n
// bytes.
func EncodedLen(n int) int { return n / 4 * 5 }

// decodeGroup converts the 5 symbols of src, found at offset off in the whole
// input, into a 32-bit value.
func decodeGroup(src []byte, off int) (uint32, error) {
	var v uint64
	for i, c := range src[:5] {
		d := decodeMap[c]
		if d == invalid {
			return 0, InvalidByteError{Offset: off + i, Byte: c}
		}
		v = v*85 + uint64(d)
	}
	if v > 0xffffffff {
		return 0, InvalidChunkError(off)
	}
	return uint32(v), nil
}

func putUint32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

// Decode decodes src into DecodedLen(len(src)) bytes of dst, returning the
// number of bytes written. len(src) must be a multiple of 5. On error, dst may
// hold the bytes of groups decoded before the failing one.
func Decode(dst, src []byte) (int, error) {
	if len(src)%5 != 0 {
		return 0, InvalidLengthError(len(src))
	}
	n := 0
	for off := 0; off < len(src); off += 5 {
		v, err := decodeGroup(src[off:], off)
		if err != nil {
			return n, err
		}
		putUint32(dst[n:], v)
		n += 4
	}
	return n, nil
}

// DecodeString returns the bytes represented by the Z85 string s.
func DecodeString(s string) ([]byte, error) {
	src := []byte(s)
	dst := make([]byte, DecodedLen(len(src)))
	n, err := Decode(dst, src)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// DecodePadded is like DecodeString, but also accepts a final group of 2 to 4
// symbols, which decodes to 1 to 3 bytes.
func DecodePadded(s string) ([]byte, error) {
	src := []byte(s)
	rem := len(src) % 5
	if rem == 1 {
		return nil, InvalidLengthError(len(src))
	}
	full := len(src) - rem
	dst := make([]byte, DecodedLen(full), DecodedLen(full)+4)
	n, err := Decode(dst, src[:full])
	if err != nil {
		return nil, err
	}
	dst = dst[:n]
	if rem == 0 {
		return dst, nil
	}

	// Complete the group with the highest digit, then keep only the bytes
	// the short group stands for.
	var group [5]byte
	copy(group[:], src[full:])
	for i := rem; i < 5; i++ {
		group[i] = alphabet[84]
	}
	v, err := decodeGroup(group[:], full)
	if _, ok := err.(InvalidChunkError); ok {
		return nil, ErrInvalidTail
	} else if err != nil {
		return nil, err
	}
	var buf [4]byte
	putUint32(buf[:], v)
	return append(dst, buf[:rem-1]...), nil
}

func encodeGroup(dst []byte, v uint32) {
	for i := 4; i >= 0; i-- {
		dst[i] = alphabet[v%85]
		v /= 85
	}
}

// Encode encodes src into EncodedLen(len(src)) symbols of dst, returning the
// number of symbols written. len(src) must be a multiple of 4.
func Encode(dst, src []byte) (int, error) {
	if len(src)%4 != 0 {
		return 0, InvalidLengthError(len(src))
	}
	n := 0
	for off := 0; off < len(src); off += 4 {
		v := uint32(src[off])<<24 | uint32(src[off+1])<<16 | uint32(src[off+2])<<8 | uint32(src[off+3])
		encodeGroup(dst[n:], v)
		n += 5
	}
	return n, nil
}

// EncodeToString returns the Z85 encoding of src.
func EncodeToString(src []byte) (string, error) {
	dst := make([]byte, EncodedLen(len(src)))
	n, err := Encode(dst, src)
	if err != nil {
		return "", err
	}
	return string(dst[:n]), nil
}

// EncodePadded returns the Z85 encoding of src, writing a trailing remainder
// of 1 to 3 bytes as a short group of 2 to 4 symbols.
func EncodePadded(src []byte) string {
	rem := len(src) % 4
	full := len(src) - rem
	dst := make([]byte, EncodedLen(full), EncodedLen(full)+5)
	// full is a multiple of 4, so Encode cannot fail.
	Encode(dst, src[:full])
	if rem == 0 {
		return string(dst)
	}

	// Zero-fill the last group; truncating its encoding then rounds up in
	// a way that DecodePadded's fill with the highest digit undoes.
	var buf [4]byte
	copy(buf[:], src[full:])
	v := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	var group [5]byte
	encodeGroup(group[:], v)
	return string(append(dst, group[:rem+1]...))
}
