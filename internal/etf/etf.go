// Package etf decodes the Erlang External Term Format subset found in the
// metadata chunks of compiled BEAM files (documentation, attributes).
//
// Decoded terms map onto Go values as follows: atoms become Atom, binaries
// become string (chunk payloads only ever carry UTF-8 text), integers become
// int64, floats become float64, tuples become Tuple, lists become []Term and
// maps become map[Term]Term. The package does not aim to be a general-purpose
// ETF codec; references, ports, pids, funs and bit binaries are rejected.
package etf

import "errors"

// Term is any decoded Erlang term.
type Term = any

// Atom is an Erlang atom.
type Atom string

// Tuple is an Erlang tuple of arbitrary arity.
type Tuple []Term

var (
	// ErrBadVersion indicates the payload does not start with the external
	// format version byte (131).
	ErrBadVersion = errors.New("etf: unsupported version byte")

	// ErrTruncated indicates the payload ended in the middle of a term.
	ErrTruncated = errors.New("etf: truncated term")

	// ErrTrailingData indicates extra bytes follow a complete term.
	ErrTrailingData = errors.New("etf: trailing data after term")

	// ErrUnsupportedTag indicates a term tag outside the supported subset.
	ErrUnsupportedTag = errors.New("etf: unsupported term tag")

	// ErrImproperList indicates a list whose tail is not the empty list.
	ErrImproperList = errors.New("etf: improper list")

	// ErrIntegerTooLarge indicates a big integer that does not fit in int64.
	ErrIntegerTooLarge = errors.New("etf: integer does not fit in int64")

	// ErrBadMapKey indicates a map key of a non-comparable Go type.
	ErrBadMapKey = errors.New("etf: unsupported map key type")

	// ErrBadFloat indicates a malformed float representation.
	ErrBadFloat = errors.New("etf: malformed float")
)

// Term tags of the external format. Only the subset emitted by the compilers
// for documentation and attribute chunks is listed.
const (
	versionByte = 131

	tagCompressed    = 80
	tagNewFloat      = 70
	tagSmallInteger  = 97
	tagInteger       = 98
	tagFloat         = 99
	tagAtom          = 100
	tagSmallTuple    = 104
	tagLargeTuple    = 105
	tagNil           = 106
	tagString        = 107
	tagList          = 108
	tagBinary        = 109
	tagSmallBig      = 110
	tagLargeBig      = 111
	tagSmallAtom     = 115
	tagMap           = 116
	tagAtomUTF8      = 118
	tagSmallAtomUTF8 = 119
)
