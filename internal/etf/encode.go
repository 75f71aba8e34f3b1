package etf

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// Encode serializes a term to the external format, version byte included.
// It supports the same subset Decode accepts and exists chiefly so tests can
// synthesize documentation and attribute chunks; int and string convenience
// types are accepted alongside the canonical int64.
func Encode(term Term) ([]byte, error) {
	buf, err := appendTerm([]byte{versionByte}, term)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func appendTerm(buf []byte, term Term) ([]byte, error) {
	switch v := term.(type) {
	case Atom:
		return appendAtom(buf, v), nil
	case string:
		buf = append(buf, tagBinary)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v)))
		return append(buf, v...), nil
	case int:
		return appendInt(buf, int64(v))
	case int64:
		return appendInt(buf, v)
	case float64:
		buf = append(buf, tagNewFloat)
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(v)), nil
	case Tuple:
		buf = appendTupleHeader(buf, len(v))
		return appendAll(buf, v)
	case []Term:
		if len(v) == 0 {
			return append(buf, tagNil), nil
		}
		buf = append(buf, tagList)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v)))
		buf, err := appendAll(buf, v)
		if err != nil {
			return nil, err
		}
		return append(buf, tagNil), nil
	case map[Term]Term:
		return appendMap(buf, v)
	case nil:
		return nil, fmt.Errorf("etf: cannot encode nil term")
	default:
		return nil, fmt.Errorf("etf: cannot encode %T", term)
	}
}

func appendAtom(buf []byte, a Atom) []byte {
	if len(a) < 256 {
		buf = append(buf, tagSmallAtomUTF8, byte(len(a)))
	} else {
		buf = append(buf, tagAtomUTF8)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(a)))
	}
	return append(buf, a...)
}

func appendInt(buf []byte, n int64) ([]byte, error) {
	switch {
	case n >= 0 && n < 256:
		return append(buf, tagSmallInteger, byte(n)), nil
	case n >= math.MinInt32 && n <= math.MaxInt32:
		buf = append(buf, tagInteger)
		return binary.BigEndian.AppendUint32(buf, uint32(int32(n))), nil
	default:
		// SMALL_BIG with the minimal number of magnitude bytes.
		buf = append(buf, tagSmallBig)
		sign := byte(0)
		mag := uint64(n)
		if n < 0 {
			sign = 1
			mag = uint64(-n)
		}
		var digits []byte
		for mag > 0 {
			digits = append(digits, byte(mag))
			mag >>= 8
		}
		buf = append(buf, byte(len(digits)), sign)
		return append(buf, digits...), nil
	}
}

func appendTupleHeader(buf []byte, arity int) []byte {
	if arity < 256 {
		return append(buf, tagSmallTuple, byte(arity))
	}
	buf = append(buf, tagLargeTuple)
	return binary.BigEndian.AppendUint32(buf, uint32(arity))
}

func appendAll(buf []byte, terms []Term) ([]byte, error) {
	var err error
	for _, t := range terms {
		if buf, err = appendTerm(buf, t); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// appendMap writes entries in a stable key order so encoded fixtures are
// reproducible across runs.
func appendMap(buf []byte, m map[Term]Term) ([]byte, error) {
	buf = append(buf, tagMap)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(m)))

	keys := make([]Term, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprintf("%T %v", keys[i], keys[i]) < fmt.Sprintf("%T %v", keys[j], keys[j])
	})

	var err error
	for _, k := range keys {
		if buf, err = appendTerm(buf, k); err != nil {
			return nil, err
		}
		if buf, err = appendTerm(buf, m[k]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
