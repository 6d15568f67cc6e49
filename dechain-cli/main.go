package main

import (
	"bytes"
	"crypto/rand"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"golang.org/x/crypto/blake2s"
	"www.bamsoftware.com/git/dechain.git/armor"
	"www.bamsoftware.com/git/dechain.git/chain"
	"www.bamsoftware.com/git/dechain.git/dechain"
	"www.bamsoftware.com/git/dechain.git/z85"
)

// The message decoded when no input file is given.
//go:embed message.z85
var sampleMessage []byte

// readInput returns the contents of the named file, or of stdin if filename is
// "-".
func readInput(filename string) ([]byte, error) {
	if filename == "-" {
		return ioutil.ReadAll(os.Stdin)
	}
	return ioutil.ReadFile(filename)
}

// unarmor extracts Z85 text from input, which is an AMP armor document if
// isHTML is true.
func unarmor(input []byte, isHTML bool) (string, error) {
	if !isHTML {
		return string(bytes.Trim(input, "\t\n\f\r ")), nil
	}
	dec, err := armor.NewDecoder(bytes.NewReader(input))
	if err != nil {
		return "", err
	}
	text, err := ioutil.ReadAll(dec)
	return string(text), err
}

// describeError returns a diagnostic for the errors of Z85 decoding and of the
// chained transform.
func describeError(err error) string {
	var lengthErr z85.InvalidLengthError
	var byteErr z85.InvalidByteError
	var chunkErr z85.InvalidChunkError
	var dzErr *chain.DivisionByZeroError
	switch {
	case errors.As(err, &lengthErr):
		return fmt.Sprintf("Z85 data length (%d) is not a multiple of five", int(lengthErr))
	case errors.As(err, &byteErr):
		return fmt.Sprintf("Z85 data has an invalid byte (0x%02X) at position %d", byteErr.Byte, byteErr.Offset)
	case errors.As(err, &chunkErr):
		return fmt.Sprintf("Z85 data has an invalid 5-byte chunk at position %d", int(chunkErr))
	case errors.Is(err, z85.ErrInvalidTail):
		return "Z85 data has an invalid padding chunk"
	case errors.As(err, &dzErr):
		return fmt.Sprintf("decoded data cannot be recovered past window %d (division by zero)", dzErr.Index)
	default:
		return err.Error()
	}
}

type options struct {
	html   bool
	padded bool
	raw    bool
	digest bool
}

func decode(w io.Writer, input []byte, opts options) error {
	armored, err := unarmor(input, opts.html)
	if err != nil {
		return err
	}

	recoverFunc := dechain.Recover
	if opts.padded {
		recoverFunc = dechain.RecoverPadded
	}
	res, err := recoverFunc(armored)
	if res != nil && opts.raw {
		fmt.Fprintf(w, "Decoded Z85 data: %v\n", res.Raw)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Decrypted string: %q\n", res.Text())
	if opts.digest {
		fmt.Fprintf(w, "BLAKE2s-256: %x\n", blake2s.Sum256(res.Plain))
	}
	return nil
}

func encode(w io.Writer, plaintext []byte, opts options) error {
	armored, err := dechain.Conceal(plaintext, rand.Reader)
	if err != nil {
		return err
	}
	if !opts.html {
		_, err = fmt.Fprintln(w, armored)
		return err
	}
	enc, err := armor.NewEncoder(w)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(enc, armored); err != nil {
		return err
	}
	return enc.Close()
}

func main() {
	var encodeMode bool
	var opts options

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage:
  %[1]s [-html] [-padded] [-raw] [-digest] [INFILE]
  %[1]s -encode [-html] [INFILE]

INFILE may be "-" for stdin. Without INFILE, a built-in sample message is
decoded.

Example:
  %[1]s -raw
  echo -n 'Hello' | %[1]s -encode -html - > hello.html
  %[1]s -html hello.html

`, os.Args[0])
		flag.PrintDefaults()
	}
	flag.BoolVar(&encodeMode, "encode", false, "conceal plaintext read from INFILE instead of recovering it")
	flag.BoolVar(&opts.html, "html", false, "read (with -encode, write) an AMP armor document instead of bare Z85")
	flag.BoolVar(&opts.padded, "padded", false, "accept a short final Z85 group")
	flag.BoolVar(&opts.raw, "raw", false, "also print the decoded Z85 bytes")
	flag.BoolVar(&opts.digest, "digest", false, "print a BLAKE2s-256 digest of the recovered bytes")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.LUTC)

	if flag.NArg() > 1 || (encodeMode && flag.NArg() != 1) {
		flag.Usage()
		os.Exit(1)
	}

	input := sampleMessage
	if flag.NArg() == 1 {
		var err error
		input, err = readInput(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot read input: %v\n", err)
			os.Exit(1)
		}
	}

	if encodeMode {
		if err := encode(os.Stdout, input, opts); err != nil {
			log.Fatalf("encode: %v", err)
		}
		return
	}

	if err := decode(os.Stdout, input, opts); err != nil {
		log.Fatal(describeError(err))
	}
}
