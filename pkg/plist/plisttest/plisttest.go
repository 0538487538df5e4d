// Package plisttest assembles small binary property lists for tests.
package plisttest

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
)

const (
	offsetIntSize = 4
	refSize       = 2
)

// Builder accumulates encoded objects and produces a complete binary
// property list buffer. Add methods return the UID of the added object;
// container objects take the UIDs of their elements.
type Builder struct {
	objects [][]byte
}

func (b *Builder) add(enc []byte) uint64 {
	b.objects = append(b.objects, enc)
	return uint64(len(b.objects) - 1)
}

func (b *Builder) Null() uint64 { return b.add([]byte{0x00}) }

func (b *Builder) Bool(v bool) uint64 {
	if v {
		return b.add([]byte{0x09})
	}
	return b.add([]byte{0x08})
}

func (b *Builder) Int(n int64) uint64 {
	return b.add(encodeInt(n))
}

func (b *Builder) Real(f float64) uint64 {
	enc := make([]byte, 9)
	enc[0] = 0x23
	binary.BigEndian.PutUint64(enc[1:], math.Float64bits(f))
	return b.add(enc)
}

// Date adds a timestamp in seconds since the Apple reference epoch.
func (b *Builder) Date(secs float64) uint64 {
	enc := make([]byte, 9)
	enc[0] = 0x33
	binary.BigEndian.PutUint64(enc[1:], math.Float64bits(secs))
	return b.add(enc)
}

func (b *Builder) Data(p []byte) uint64 {
	return b.add(append(head(0x40, len(p)), p...))
}

func (b *Builder) ASCII(s string) uint64 {
	return b.add(append(head(0x50, len(s)), s...))
}

func (b *Builder) UTF16(s string) uint64 {
	units := utf16.Encode([]rune(s))
	enc := head(0x60, len(units))
	for _, u := range units {
		enc = append(enc, byte(u>>8), byte(u))
	}
	return b.add(enc)
}

func (b *Builder) UID(n uint64) uint64 {
	return b.add([]byte{0x80, byte(n)})
}

func (b *Builder) Array(refs ...uint64) uint64 {
	enc := head(0xA0, len(refs))
	for _, r := range refs {
		enc = appendRef(enc, r)
	}
	return b.add(enc)
}

// Dict takes alternating string keys and element UIDs. Key objects are
// added to the table automatically.
func (b *Builder) Dict(pairs ...any) uint64 {
	if len(pairs)%2 != 0 {
		panic("plisttest: Dict requires key/ref pairs")
	}
	n := len(pairs) / 2
	keyRefs := make([]uint64, n)
	valRefs := make([]uint64, n)
	for i := 0; i < n; i++ {
		keyRefs[i] = b.ASCII(pairs[2*i].(string))
		valRefs[i] = pairs[2*i+1].(uint64)
	}
	enc := head(0xD0, n)
	for _, r := range keyRefs {
		enc = appendRef(enc, r)
	}
	for _, r := range valRefs {
		enc = appendRef(enc, r)
	}
	return b.add(enc)
}

// RawObject adds a pre-encoded object verbatim, for malformed-input tests.
func (b *Builder) RawObject(enc []byte) uint64 { return b.add(enc) }

// Bytes assembles the header, object bodies, offset table and trailer.
func (b *Builder) Bytes(top uint64) []byte {
	out := []byte("bplist00")
	offsets := make([]uint64, len(b.objects))
	for i, obj := range b.objects {
		offsets[i] = uint64(len(out))
		out = append(out, obj...)
	}
	tableOffset := uint64(len(out))
	for _, off := range offsets {
		out = binary.BigEndian.AppendUint32(out, uint32(off))
	}

	var trailer [32]byte
	trailer[6] = offsetIntSize
	trailer[7] = refSize
	binary.BigEndian.PutUint64(trailer[8:], uint64(len(b.objects)))
	binary.BigEndian.PutUint64(trailer[16:], top)
	binary.BigEndian.PutUint64(trailer[24:], tableOffset)
	return append(out, trailer[:]...)
}

func encodeInt(n int64) []byte {
	switch {
	case n < 0:
		enc := make([]byte, 9)
		enc[0] = 0x13
		binary.BigEndian.PutUint64(enc[1:], uint64(n))
		return enc
	case n < 1<<8:
		return []byte{0x10, byte(n)}
	case n < 1<<16:
		return []byte{0x11, byte(n >> 8), byte(n)}
	case n < 1<<32:
		enc := make([]byte, 5)
		enc[0] = 0x12
		binary.BigEndian.PutUint32(enc[1:], uint32(n))
		return enc
	default:
		enc := make([]byte, 9)
		enc[0] = 0x13
		binary.BigEndian.PutUint64(enc[1:], uint64(n))
		return enc
	}
}

// head encodes a container marker with its count, spilling counts of 15 or
// more into a trailing inline integer.
func head(marker byte, count int) []byte {
	if count < 0x0F {
		return []byte{marker | byte(count)}
	}
	return append([]byte{marker | 0x0F}, encodeInt(int64(count))...)
}

func appendRef(enc []byte, r uint64) []byte {
	return append(enc, byte(r>>8), byte(r))
}
