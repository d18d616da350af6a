package dumpio

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
	lz4 "github.com/pierrec/lz4/v4"
)

// Comp selects how a dump payload is compressed.
type Comp uint8

const (
	Raw Comp = iota
	ZSTD
	LZ4
)

func (c Comp) String() string {
	switch c {
	case Raw:
		return "raw"
	case ZSTD:
		return "zstd"
	case LZ4:
		return "lz4"
	}
	return "unknown"
}

// ParseComp is the inverse of Comp.String.
func ParseComp(s string) (Comp, error) {
	switch s {
	case "", "raw":
		return Raw, nil
	case "zstd":
		return ZSTD, nil
	case "lz4":
		return LZ4, nil
	}
	return Raw, errors.Newf("unknown compression %q", s)
}

func compress(c Comp, data []byte) ([]byte, error) {
	switch c {
	case Raw:
		return data, nil
	case ZSTD:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Newf("unknown compression %d", c)
}

func decompress(c Comp, data []byte) ([]byte, error) {
	switch c {
	case Raw:
		return data, nil
	case ZSTD:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	case LZ4:
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, lz4.NewReader(bytes.NewReader(data))); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Newf("unknown compression %d", c)
}
