// Package dechain recovers a message from Z85 text by decoding it and then
// undoing the chained transform of package chain.
package dechain

import (
	"io"
	"strings"

	"www.bamsoftware.com/git/dechain.git/chain"
	"www.bamsoftware.com/git/dechain.git/z85"
)

// Result holds the output of both stages of recovery.
type Result struct {
	// Raw is the output of Z85 decoding.
	Raw []byte
	// Plain is the output of the chained transform of Raw.
	Plain []byte
}

// Text returns Plain as a string, with invalid UTF-8 sequences replaced by
// U+FFFD.
func (res *Result) Text() string {
	return strings.ToValidUTF8(string(res.Plain), "�")
}

// Recover decodes armored, which must be strict Z85, and returns the recovered
// message. Errors are those of z85.DecodeString and chain.Transform. When the
// transform fails, the returned Result holds what was recovered before the
// failure.
func Recover(armored string) (*Result, error) {
	raw, err := z85.DecodeString(armored)
	if err != nil {
		return nil, err
	}
	return recoverRaw(raw)
}

// RecoverPadded is like Recover, but accepts a short final Z85 group.
func RecoverPadded(armored string) (*Result, error) {
	raw, err := z85.DecodePadded(armored)
	if err != nil {
		return nil, err
	}
	return recoverRaw(raw)
}

func recoverRaw(raw []byte) (*Result, error) {
	plain, err := chain.Transform(raw)
	return &Result{Raw: raw, Plain: plain}, err
}

// Conceal is the inverse of Recover: it returns Z85 text from which Recover
// recovers plaintext. The high halves of the transform's words are read from
// rand.
func Conceal(plaintext []byte, rand io.Reader) (string, error) {
	raw, err := chain.Obfuscate(nil, plaintext, rand)
	if err != nil {
		return "", err
	}
	// Windows are a multiple of 4 bytes long.
	return z85.EncodeToString(raw)
}
