package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultContentDecoder decodes stored objects according to their encoding
// label, which is either a content coding or a character set
type DefaultContentDecoder struct{}

// NewDefaultContentDecoder creates a new content decoder
func NewDefaultContentDecoder() *DefaultContentDecoder {
	return &DefaultContentDecoder{}
}

// Decode returns data unchanged for an empty label, decompresses it for a
// content coding, and otherwise converts it from the named charset to UTF-8
func (d *DefaultContentDecoder) Decode(data []byte, label string) ([]byte, error) {
	label = strings.ToLower(strings.TrimSpace(label))

	switch label {
	case "", "identity":
		return data, nil
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer r.Close()
		return readAll(r, label)
	case "deflate":
		r, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("deflate: %w", err)
		}
		defer r.Close()
		return readAll(r, label)
	case "zstd":
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out, nil
	}

	enc, err := lookupCharset(label)
	if err != nil {
		return nil, err
	}
	// the x/text UTF-8 decoder substitutes invalid sequences; reject them instead
	if enc == unicode.UTF8 {
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("%s: invalid byte sequence", label)
		}
		return data, nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return out, nil
}

func readAll(r io.Reader, label string) ([]byte, error) {
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return out, nil
}

var (
	// utf16 honours either byte order mark, strips it, and falls back to
	// little endian without one
	utf16 = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)

	charsetOverrides = map[string]encoding.Encoding{
		"ascii":          strictASCII,
		"us-ascii":       strictASCII,
		"usascii":        strictASCII,
		"646":            strictASCII,
		"us":             strictASCII,
		"iso646-us":      strictASCII,
		"ansi_x3.4-1968": strictASCII,
		"ansi-x3.4-1968": strictASCII,
		"csascii":        strictASCII,
		"utf-16":         utf16,
		"utf16":          utf16,
	}
)

// lookupCharset resolves a label through the overrides, then the IANA
// registry, and only then WHATWG labels. Each lookup also tries the label
// with separators normalized ("latin-1" -> "latin1").
func lookupCharset(label string) (encoding.Encoding, error) {
	candidates := []string{
		label,
		strings.ReplaceAll(label, "_", "-"),
		strings.ReplaceAll(strings.ReplaceAll(label, "-", ""), "_", ""),
	}
	for _, candidate := range candidates {
		if enc, ok := charsetOverrides[candidate]; ok {
			return enc, nil
		}
	}
	for _, candidate := range candidates {
		enc, err := ianaindex.IANA.Encoding(candidate)
		if err != nil || enc == nil {
			continue
		}
		if name, _ := ianaindex.IANA.Name(enc); name == "US-ASCII" {
			return strictASCII, nil
		}
		return enc, nil
	}
	for _, candidate := range candidates {
		if enc, err := htmlindex.Get(candidate); err == nil {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("unknown content encoding %q", label)
}

var errNonASCII = errors.New("byte outside the ASCII range")

// strictASCII decodes 7-bit ASCII and fails on any other byte
var strictASCII encoding.Encoding = asciiEncoding{}

type asciiEncoding struct{}

func (asciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: asciiTransformer{}}
}

func (asciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiTransformer{}}
}

type asciiTransformer struct{ transform.NopResetter }

func (asciiTransformer) Transform(dst, src []byte, _ bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if src[nSrc] >= utf8.RuneSelf {
			return nDst, nSrc, errNonASCII
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = src[nSrc]
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}
