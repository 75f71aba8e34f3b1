package etf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Decode parses exactly one term from data. The payload must start with the
// external format version byte, and no bytes may follow the term.
func Decode(data []byte) (Term, error) {
	if len(data) == 0 {
		return nil, ErrTruncated
	}
	if data[0] != versionByte {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadVersion, data[0])
	}
	d := &decoder{buf: data, pos: 1}
	term, err := d.term()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		return nil, fmt.Errorf("%w: %d byte(s)", ErrTrailingData, len(d.buf)-d.pos)
	}
	return term, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) term() (Term, error) {
	tag, err := d.byte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagCompressed:
		return d.compressed()
	case tagSmallInteger:
		b, err := d.byte()
		if err != nil {
			return nil, err
		}
		return int64(b), nil
	case tagInteger:
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		return int64(int32(n)), nil
	case tagNewFloat:
		raw, err := d.bytes(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(raw)), nil
	case tagFloat:
		raw, err := d.bytes(31)
		if err != nil {
			return nil, err
		}
		text := strings.TrimRight(string(raw), "\x00")
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadFloat, text)
		}
		return f, nil
	case tagAtom, tagSmallAtom:
		return d.atomLatin1(tag == tagSmallAtom)
	case tagAtomUTF8, tagSmallAtomUTF8:
		return d.atomUTF8(tag == tagSmallAtomUTF8)
	case tagSmallTuple:
		arity, err := d.byte()
		if err != nil {
			return nil, err
		}
		return d.tuple(int(arity))
	case tagLargeTuple:
		arity, err := d.uint32()
		if err != nil {
			return nil, err
		}
		return d.tuple(int(arity))
	case tagNil:
		return []Term{}, nil
	case tagString:
		return d.charList()
	case tagList:
		return d.list()
	case tagBinary:
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		raw, err := d.bytes(int(n))
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	case tagSmallBig:
		n, err := d.byte()
		if err != nil {
			return nil, err
		}
		return d.big(int(n))
	case tagLargeBig:
		n, err := d.uint32()
		if err != nil {
			return nil, err
		}
		return d.big(int(n))
	case tagMap:
		return d.mapTerm()
	default:
		return nil, fmt.Errorf("%w: %d at offset %d", ErrUnsupportedTag, tag, d.pos-1)
	}
}

// compressed inflates a zlib-deflated term. The uncompressed payload is a bare
// term without a leading version byte.
func (d *decoder) compressed() (Term, error) {
	size, err := d.uint32()
	if err != nil {
		return nil, err
	}
	zr, err := zlib.NewReader(bytes.NewReader(d.buf[d.pos:]))
	if err != nil {
		return nil, fmt.Errorf("etf: corrupt compressed term: %w", err)
	}
	defer zr.Close()
	inflated, err := io.ReadAll(io.LimitReader(zr, int64(size)+1))
	if err != nil {
		return nil, fmt.Errorf("etf: corrupt compressed term: %w", err)
	}
	if len(inflated) != int(size) {
		return nil, fmt.Errorf("etf: compressed term size mismatch: got %d, want %d", len(inflated), size)
	}
	d.pos = len(d.buf) // the deflate stream consumes the remainder of the payload

	inner := &decoder{buf: inflated}
	term, err := inner.term()
	if err != nil {
		return nil, err
	}
	if inner.pos != len(inner.buf) {
		return nil, fmt.Errorf("%w: %d byte(s)", ErrTrailingData, len(inner.buf)-inner.pos)
	}
	return term, nil
}

func (d *decoder) atomLatin1(small bool) (Term, error) {
	n, err := d.length(small)
	if err != nil {
		return nil, err
	}
	raw, err := d.bytes(n)
	if err != nil {
		return nil, err
	}
	// Latin-1 code points coincide with the first 256 Unicode code points.
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return Atom(runes), nil
}

func (d *decoder) atomUTF8(small bool) (Term, error) {
	n, err := d.length(small)
	if err != nil {
		return nil, err
	}
	raw, err := d.bytes(n)
	if err != nil {
		return nil, err
	}
	return Atom(raw), nil
}

func (d *decoder) tuple(arity int) (Term, error) {
	if arity > d.remaining() {
		return nil, ErrTruncated
	}
	t := make(Tuple, arity)
	for i := range t {
		elem, err := d.term()
		if err != nil {
			return nil, err
		}
		t[i] = elem
	}
	return t, nil
}

// charList decodes STRING_EXT, the compact encoding of a list of bytes. It
// stays a list of integers so callers see the same shape LIST_EXT would give.
func (d *decoder) charList() (Term, error) {
	n, err := d.length(false)
	if err != nil {
		return nil, err
	}
	raw, err := d.bytes(n)
	if err != nil {
		return nil, err
	}
	list := make([]Term, len(raw))
	for i, b := range raw {
		list[i] = int64(b)
	}
	return list, nil
}

func (d *decoder) list() (Term, error) {
	n, err := d.uint32()
	if err != nil {
		return nil, err
	}
	if int(n) > d.remaining() {
		return nil, ErrTruncated
	}
	list := make([]Term, n)
	for i := range list {
		elem, err := d.term()
		if err != nil {
			return nil, err
		}
		list[i] = elem
	}
	tail, err := d.term()
	if err != nil {
		return nil, err
	}
	if t, ok := tail.([]Term); !ok || len(t) != 0 {
		return nil, ErrImproperList
	}
	return list, nil
}

func (d *decoder) big(n int) (Term, error) {
	sign, err := d.byte()
	if err != nil {
		return nil, err
	}
	raw, err := d.bytes(n)
	if err != nil {
		return nil, err
	}
	if n > 8 {
		return nil, ErrIntegerTooLarge
	}
	var mag uint64
	for i := n - 1; i >= 0; i-- { // little-endian magnitude
		mag = mag<<8 | uint64(raw[i])
	}
	if sign == 0 {
		if mag > math.MaxInt64 {
			return nil, ErrIntegerTooLarge
		}
		return int64(mag), nil
	}
	if mag > math.MaxInt64+1 {
		return nil, ErrIntegerTooLarge
	}
	return -int64(mag), nil
}

func (d *decoder) mapTerm() (Term, error) {
	arity, err := d.uint32()
	if err != nil {
		return nil, err
	}
	if int(arity)*2 > d.remaining() {
		return nil, ErrTruncated
	}
	m := make(map[Term]Term, arity)
	for i := 0; i < int(arity); i++ {
		key, err := d.term()
		if err != nil {
			return nil, err
		}
		if !comparableTerm(key) {
			return nil, fmt.Errorf("%w: %T", ErrBadMapKey, key)
		}
		val, err := d.term()
		if err != nil {
			return nil, err
		}
		m[key] = val
	}
	return m, nil
}

// comparableTerm reports whether a decoded term may serve as a Go map key.
// Composite terms (tuples, lists, maps) are rejected rather than risking a
// runtime panic on map insertion.
func comparableTerm(t Term) bool {
	switch t.(type) {
	case Atom, string, int64, float64:
		return true
	default:
		return false
	}
}

func (d *decoder) length(small bool) (int, error) {
	if small {
		b, err := d.byte()
		return int(b), err
	}
	raw, err := d.bytes(2)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(raw)), nil
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrTruncated
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) uint32() (uint32, error) {
	raw, err := d.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(raw), nil
}

func (d *decoder) bytes(n int) ([]byte, error) {
	if n < 0 || n > d.remaining() {
		return nil, ErrTruncated
	}
	raw := d.buf[d.pos : d.pos+n]
	d.pos += n
	return raw, nil
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.pos
}
