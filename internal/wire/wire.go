// Package wire frames a corpus bundle for storage in a byte store.
//
// A bundle carries every category of a corpus in one value so readers never
// observe half of a publish.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	version    byte = 1
	kindBundle byte = 1
)

// Field limits imposed by the frame's length prefixes.
const (
	MaxCategoryLen = math.MaxUint16
	MaxPayloadLen  = math.MaxUint32
)

var (
	ErrCorrupt = errors.New("itfaker: corrupt corpus bundle")
	// ErrInvalidEntry is returned by EncodeBundle for entries the frame
	// cannot represent.
	ErrInvalidEntry = errors.New("itfaker: invalid bundle entry")
	magic4          = [...]byte{'I', 'T', 'F', 'K'}
)

// Entry is one encoded category of a bundle.
type Entry struct {
	Category string
	Payload  []byte
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// EncodeBundle:
//
//	magic(4) | ver(1) | kind(1) | rev(u64 be) | n(u32 be)
//	catLen(u16 be) | category(catLen) | vlen(u32 be) | payload(vlen) * n
//
// Categories must be non-empty, unique and at most MaxCategoryLen bytes;
// payloads at most MaxPayloadLen bytes.
func EncodeBundle(rev uint64, entries []Entry) ([]byte, error) {
	if uint64(len(entries)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d entries", ErrInvalidEntry, len(entries))
	}
	total := 4 + 1 + 1 + 8 + 4
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[e.Category]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidEntry, e.Category)
		}
		seen[e.Category] = struct{}{}
		total += 2 + len(e.Category) + 4 + len(e.Payload)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBundle)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint64(u8[:], rev)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(entries)))
	buf.Write(u4[:])

	for _, e := range entries {
		binary.BigEndian.PutUint16(u2[:], uint16(len(e.Category)))
		buf.Write(u2[:])
		buf.WriteString(e.Category)

		binary.BigEndian.PutUint32(u4[:], uint32(len(e.Payload)))
		buf.Write(u4[:])
		buf.Write(e.Payload)
	}

	return buf.Bytes(), nil
}

func (e Entry) validate() error {
	switch l := len(e.Category); {
	case l == 0:
		return fmt.Errorf("%w: empty category", ErrInvalidEntry)
	case l > MaxCategoryLen:
		return fmt.Errorf("%w: category of %d bytes exceeds %d", ErrInvalidEntry, l, MaxCategoryLen)
	}
	if uint64(len(e.Payload)) > MaxPayloadLen {
		return fmt.Errorf("%w: %q payload of %d bytes exceeds %d", ErrInvalidEntry, e.Category, len(e.Payload), uint64(MaxPayloadLen))
	}
	return nil
}

// DecodeBundle validates the frame and returns the revision and entries.
// Payloads alias b.
func DecodeBundle(b []byte) (uint64, []Entry, error) {
	const hdr = 4 + 1 + 1 + 8 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindBundle {
		return 0, nil, ErrCorrupt
	}

	off := 6
	rev := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// each entry needs at least 2+1+4 bytes
	if n < 0 || n > (len(b)-off)/7 {
		return 0, nil, ErrCorrupt
	}

	entries := make([]Entry, 0, n)
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		if off+2 > len(b) {
			return 0, nil, ErrCorrupt
		}
		clen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if clen <= 0 || clen > len(b)-off {
			return 0, nil, ErrCorrupt
		}
		cat := string(b[off : off+clen])
		off += clen
		if _, dup := seen[cat]; dup {
			return 0, nil, ErrCorrupt
		}
		seen[cat] = struct{}{}

		if off+4 > len(b) {
			return 0, nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return 0, nil, ErrCorrupt
		}

		entries = append(entries, Entry{Category: cat, Payload: b[off : off+vlen]})
		off += vlen
	}
	if off != len(b) {
		return 0, nil, ErrCorrupt
	}

	return rev, entries, nil
}
