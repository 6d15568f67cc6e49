package armor

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// The maximum number of bytes of text a single pre element may contain.
const maxPreLen = 64 * 1024

var (
	errNestedPre   = errors.New("armor: nested pre element")
	errPreTooLong  = errors.New("armor: pre element too long")
	errMissingText = errors.New("armor: no armored text")
)

type decoder struct {
	z      *html.Tokenizer
	inPre  bool
	preLen int
	// Symbols extracted from pre elements but not yet returned.
	buf []byte
	err error
}

// NewDecoder returns an io.Reader over the Z85 text contained in the AMP
// armored HTML document read from r. It reads from r until it has found and
// checked the version indicator.
func NewDecoder(r io.Reader) (io.Reader, error) {
	dec := &decoder{z: html.NewTokenizer(r)}
	for len(dec.buf) == 0 {
		if err := dec.next(); err == io.EOF {
			return nil, errMissingText
		} else if err != nil {
			return nil, err
		}
	}
	switch version := dec.buf[0]; version {
	case versionIndicator:
		dec.buf = dec.buf[1:]
	default:
		return nil, fmt.Errorf("armor: unknown version indicator %+q", version)
	}
	return dec, nil
}

// next processes one HTML token, appending any text found inside a pre element
// to dec.buf.
func (dec *decoder) next() error {
	switch dec.z.Next() {
	case html.ErrorToken:
		return dec.z.Err()
	case html.StartTagToken:
		name, _ := dec.z.TagName()
		if atom.Lookup(name) == atom.Pre {
			if dec.inPre {
				return errNestedPre
			}
			dec.inPre = true
			dec.preLen = 0
		}
	case html.EndTagToken:
		name, _ := dec.z.TagName()
		if atom.Lookup(name) == atom.Pre {
			dec.inPre = false
		}
	case html.TextToken:
		if !dec.inPre {
			break
		}
		text := dec.z.Text()
		dec.preLen += len(text)
		if dec.preLen > maxPreLen {
			return errPreTooLong
		}
		for _, c := range text {
			if !isASCIIWhitespace(c) {
				dec.buf = append(dec.buf, c)
			}
		}
	}
	return nil
}

func (dec *decoder) Read(p []byte) (int, error) {
	for len(dec.buf) == 0 && dec.err == nil {
		dec.err = dec.next()
	}
	n := copy(p, dec.buf)
	dec.buf = dec.buf[n:]
	if n > 0 {
		return n, nil
	}
	return 0, dec.err
}

// isASCIIWhitespace returns true if c is one of the characters that may
// separate chunks.
func isASCIIWhitespace(c byte) bool {
	switch c {
	case '\x09', '\x0a', '\x0c', '\x0d', '\x20':
		return true
	}
	return false
}
