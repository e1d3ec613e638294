// Package metagenomisc holds the file handling shared by the metagenome
// prediction tools: local and Google Storage paths, and transparent
// decompression.
package metagenomisc

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZlib
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZlib:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}

	return "invalid"
}

// Byte code signatures from https://stackoverflow.com/a/19127748/199475 .
// Checked in order.
var byteCodeSigs = []struct {
	DataType
	sig []byte
}{
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},
	{DataTypeZlib, []byte{0x78, 0x9c}},
	{DataTypeZlib, []byte{0x78, 0xda}},
	{DataTypeZlib, []byte{0x78, 0x01}},
}

// DetectDataType peeks at the start of the stream, without consuming it, and
// matches it against a set of known compression signatures.
func DetectDataType(br *bufio.Reader) (DataType, error) {
	buff, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	for _, candidate := range byteCodeSigs {
		if bytes.HasPrefix(buff, candidate.sig) {
			return candidate.DataType, nil
		}
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser wraps r with the decompressor that its first bytes
// call for. Uncompressed streams are passed through. Closing the result closes
// r.
func MaybeDecompressReadCloser(r io.ReadCloser) (io.ReadCloser, DataType, error) {
	br := bufio.NewReader(r)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, dt, pfx.Err(err)
	}

	var decompressed io.Reader
	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		decompressed = gz
	case DataTypeZip:
		// Only the first file of an archive is read.
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, pfx.Err(err)
		}
		decompressed = zr
	case DataTypeBZip2:
		decompressed = bzip2.NewReader(br)
	case DataTypeXZ:
		xr, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		decompressed = xr
	case DataTypeZlib:
		zr, err := zlib.NewReader(br)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		decompressed = zr
	default:
		decompressed = br
	}

	return &readCloser{Reader: decompressed, closer: r}, dt, nil
}

// readCloser reads from the decompressed stream and closes the underlying one.
type readCloser struct {
	io.Reader
	closer io.Closer
}

func (c *readCloser) Close() error {
	if rc, ok := c.Reader.(io.Closer); ok {
		rc.Close()
	}

	return c.closer.Close()
}
