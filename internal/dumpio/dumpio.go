// Package dumpio writes diagnostic dumps of sparse matrices to files and
// reads them back for display. A dump file is one JSON header line followed
// by the (optionally compressed) dump text. The header carries xxh3 hashes
// of fixed-size chunks of the text so a damaged file is reported instead of
// shown.
package dumpio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	xxh3 "github.com/zeebo/xxh3"
)

const format = "csr5-dump"

// DefaultChunk is the checksum chunk size used when Write is given 0.
const DefaultChunk = 4096

var ErrChecksumMismatch = errors.New("dump checksum mismatch")

// Header is the first line of a dump file.
type Header struct {
	Format    string   `json:"format"`
	Comp      string   `json:"comp"`
	Size      int      `json:"size"`
	ChunkSize int      `json:"chunk_size"`
	Hashes    []string `json:"hashes_hex"`
}

// ChunkHashes hashes data in chunks of the given size.
func ChunkHashes(data []byte, chunk int) []uint64 {
	hashes := make([]uint64, 0, (len(data)+chunk-1)/chunk)
	for i := 0; i < len(data); i += chunk {
		end := min(i+chunk, len(data))
		hashes = append(hashes, xxh3.Hash(data[i:end]))
	}
	return hashes
}

func hexHashes(h []uint64) []string {
	out := make([]string, len(h))
	for i, x := range h {
		out[i] = fmt.Sprintf("%016x", x)
	}
	return out
}

// Encode writes text to w with a header describing compression and checksums.
func Encode(w io.Writer, text []byte, comp Comp, chunk int) error {
	if chunk <= 0 {
		chunk = DefaultChunk
	}
	payload, err := compress(comp, text)
	if err != nil {
		return errors.Wrapf(err, "compress %s", comp)
	}
	hdr, err := json.Marshal(Header{
		Format:    format,
		Comp:      comp.String(),
		Size:      len(text),
		ChunkSize: chunk,
		Hashes:    hexHashes(ChunkHashes(text, chunk)),
	})
	if err != nil {
		return err
	}
	if _, err := w.Write(append(hdr, '\n')); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Decode reads a dump written by Encode and verifies it.
func Decode(r io.Reader) (*Header, []byte, error) {
	br := bufio.NewReader(r)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return nil, nil, errors.Wrap(err, "read dump header")
	}
	var hdr Header
	if err := json.Unmarshal(bytes.TrimSpace(line), &hdr); err != nil {
		return nil, nil, errors.Wrap(err, "parse dump header")
	}
	if hdr.Format != format {
		return nil, nil, errors.Newf("not a dump file (format %q)", hdr.Format)
	}
	comp, err := ParseComp(hdr.Comp)
	if err != nil {
		return nil, nil, err
	}
	payload, err := io.ReadAll(br)
	if err != nil {
		return nil, nil, err
	}
	text, err := decompress(comp, payload)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "decompress %s", comp)
	}
	if len(text) != hdr.Size {
		return nil, nil, errors.Wrapf(ErrChecksumMismatch, "size %d, header says %d", len(text), hdr.Size)
	}
	have := hexHashes(ChunkHashes(text, max(hdr.ChunkSize, 1)))
	if len(have) != len(hdr.Hashes) {
		return nil, nil, errors.Wrapf(ErrChecksumMismatch, "%d chunks, header has %d", len(have), len(hdr.Hashes))
	}
	for i := range have {
		if have[i] != hdr.Hashes[i] {
			return nil, nil, errors.Wrapf(ErrChecksumMismatch, "chunk %d", i)
		}
	}
	return &hdr, text, nil
}

// Write stores text in a dump file at path.
func Write(path string, text []byte, comp Comp, chunk int) error {
	var buf bytes.Buffer
	if err := Encode(&buf, text, comp, chunk); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Read loads and verifies the dump file at path.
func Read(path string) (*Header, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Decode(f)
}
