package armor

import (
	"bufio"
	"io"

	"golang.org/x/net/html"
)

const (
	// The version indicator written before the Z85 text.
	versionIndicator = '0'

	// Symbols per line.
	chunkLen = 32
	// Lines per pre element.
	chunksPerPre = 1024
)

const header = `<!doctype html>
<html amp>
<head>
<meta charset="utf-8">
<script async src="https://cdn.ampproject.org/v0.js"></script>
<link rel="canonical" href="#">
<meta name="viewport" content="width=device-width">
<style amp-boilerplate>body{-webkit-animation:-amp-start 8s steps(1,end) 0s 1 normal both;-moz-animation:-amp-start 8s steps(1,end) 0s 1 normal both;-ms-animation:-amp-start 8s steps(1,end) 0s 1 normal both;animation:-amp-start 8s steps(1,end) 0s 1 normal both}@-webkit-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-moz-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-ms-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@-o-keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}@keyframes -amp-start{from{visibility:hidden}to{visibility:visible}}</style><noscript><style amp-boilerplate>body{-webkit-animation:none;-moz-animation:none;-ms-animation:none;animation:none}</style></noscript>
</head>
<body>
`

const footer = `</body>
</html>
`

type encoder struct {
	w      *bufio.Writer
	line   []byte
	chunks int
}

// NewEncoder returns an io.WriteCloser that wraps the Z85 text written to it in
// an AMP HTML document and writes the document to w. The caller must call Close
// to write the end of the document.
func NewEncoder(w io.Writer) (io.WriteCloser, error) {
	enc := &encoder{
		w:    bufio.NewWriter(w),
		line: make([]byte, 0, chunkLen),
	}
	if _, err := enc.w.WriteString(header); err != nil {
		return nil, err
	}
	enc.line = append(enc.line, versionIndicator)
	return enc, nil
}

// flushLine writes the current line, opening and closing pre elements as
// needed.
func (enc *encoder) flushLine() error {
	if enc.chunks == 0 {
		if _, err := enc.w.WriteString("<pre>\n"); err != nil {
			return err
		}
	}
	if _, err := enc.w.WriteString(html.EscapeString(string(enc.line))); err != nil {
		return err
	}
	if err := enc.w.WriteByte('\n'); err != nil {
		return err
	}
	enc.line = enc.line[:0]
	enc.chunks++
	if enc.chunks == chunksPerPre {
		return enc.closePre()
	}
	return nil
}

func (enc *encoder) closePre() error {
	enc.chunks = 0
	_, err := enc.w.WriteString("</pre>\n")
	return err
}

func (enc *encoder) Write(p []byte) (int, error) {
	n := 0
	for len(p) > 0 {
		m := chunkLen - len(enc.line)
		if m > len(p) {
			m = len(p)
		}
		enc.line = append(enc.line, p[:m]...)
		p = p[m:]
		n += m
		if len(enc.line) == chunkLen {
			if err := enc.flushLine(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// Close writes any buffered text and the end of the document. It does not
// close the underlying io.Writer.
func (enc *encoder) Close() error {
	if len(enc.line) > 0 {
		if err := enc.flushLine(); err != nil {
			return err
		}
	}
	if enc.chunks > 0 {
		if err := enc.closePre(); err != nil {
			return err
		}
	}
	if _, err := enc.w.WriteString(footer); err != nil {
		return err
	}
	return enc.w.Flush()
}
