// Package beam reads compiled BEAM files and exposes their EEP-48
// documentation as a docs.Store, and their declared behaviours as a
// docs.BehaviourResolver.
//
// A BEAM file is an IFF-style container: a "FOR1" header followed by tagged
// chunks. Only the container framing and the two metadata chunks this
// package needs ("Docs" and "Attr") are interpreted; code chunks pass
// through untouched.
package beam

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotBeam indicates the data does not start with a BEAM container
	// header.
	ErrNotBeam = errors.New("beam: not a BEAM file")

	// ErrTruncated indicates the container ended inside a chunk.
	ErrTruncated = errors.New("beam: truncated container")

	// ErrMalformedChunk indicates a chunk payload that does not match its
	// expected term shape.
	ErrMalformedChunk = errors.New("beam: malformed chunk")
)

// Chunk names interpreted by this package.
const (
	DocsChunk = "Docs"
	AttrChunk = "Attr"
)

// File is a parsed BEAM container.
type File struct {
	chunks map[string][]byte
	order  []string
}

// ReadFile parses the BEAM file at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("beam: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return f, nil
}

// Parse parses BEAM container bytes. Duplicate chunk tags keep the first
// occurrence, matching the reference loader.
func Parse(data []byte) (*File, error) {
	if len(data) < 12 {
		return nil, ErrNotBeam
	}
	if string(data[0:4]) != "FOR1" || string(data[8:12]) != "BEAM" {
		return nil, ErrNotBeam
	}
	size := binary.BigEndian.Uint32(data[4:8])
	if int(size) < 4 || int(size) > len(data)-8 {
		return nil, ErrTruncated
	}

	f := &File{chunks: make(map[string][]byte)}
	body := data[12 : 8+size]
	for len(body) > 0 {
		if len(body) < 8 {
			return nil, ErrTruncated
		}
		tag := string(body[0:4])
		chunkSize := int(binary.BigEndian.Uint32(body[4:8]))
		if chunkSize < 0 || chunkSize > len(body)-8 {
			return nil, fmt.Errorf("%w: chunk %q", ErrTruncated, tag)
		}
		if _, dup := f.chunks[tag]; !dup {
			f.chunks[tag] = body[8 : 8+chunkSize]
			f.order = append(f.order, tag)
		}
		// The final chunk may omit its alignment padding.
		next := 8 + pad4(chunkSize)
		if next >= len(body) {
			body = nil
		} else {
			body = body[next:]
		}
	}
	return f, nil
}

// Chunk returns the payload of a chunk by tag.
func (f *File) Chunk(tag string) ([]byte, bool) {
	data, ok := f.chunks[tag]
	return data, ok
}

// Chunks lists the chunk tags in file order.
func (f *File) Chunks() []string {
	return append([]string(nil), f.order...)
}

// pad4 rounds a chunk size up to the 4-byte alignment the container uses,
// capped at the remaining body handled by the caller.
func pad4(n int) int {
	if rem := n % 4; rem != 0 {
		return n + 4 - rem
	}
	return n
}
