package plist

import (
	"bytes"
	"encoding/binary"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// Binary property list layout: an 8-byte "bplist0x" magic, a sequence of
// marker-tagged objects, an offset table locating each object, and a
// 32-byte trailer describing the table.
const trailerSize = 32

var minFileSize = len(magic) + 1 + trailerSize

var magic = []byte("bplist0")

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Decode parses a binary property list and returns its top-level object.
// Objects referenced more than once decode to the same value: shared
// subgraphs are never duplicated.
func Decode(data []byte) (Object, error) {
	d, err := newDecoder(data)
	if err != nil {
		return nil, err
	}
	return d.object(d.top)
}

type decoder struct {
	data    []byte
	offsets []int64
	refSize int
	top     uint64
	// bodyEnd is the start of the offset table; object bodies may not
	// extend past it.
	bodyEnd int64

	// objects memoizes decoded values by UID; pending guards against
	// containers that reference themselves.
	objects []Object
	pending []bool
}

func newDecoder(data []byte) (*decoder, error) {
	if len(data) < minFileSize || !bytes.HasPrefix(data, magic) {
		return nil, &FormatError{Pos: 0, Msg: "bad header magic"}
	}

	trailer := data[len(data)-trailerSize:]
	offsetIntSize := int(trailer[6])
	refSize := int(trailer[7])
	numObjects := binary.BigEndian.Uint64(trailer[8:16])
	topObject := binary.BigEndian.Uint64(trailer[16:24])
	tableOffset := binary.BigEndian.Uint64(trailer[24:32])

	if offsetIntSize < 1 || offsetIntSize > 8 || refSize < 1 || refSize > 8 {
		return nil, &FormatError{Pos: -1, Msg: "invalid trailer size fields"}
	}
	bodyEnd := uint64(len(data) - trailerSize)
	if numObjects == 0 || topObject >= numObjects {
		return nil, &FormatError{Pos: -1, Msg: "invalid trailer object counts"}
	}
	tableSize := numObjects * uint64(offsetIntSize)
	if tableOffset < uint64(len(magic))+1 || tableOffset > bodyEnd || tableSize > bodyEnd-tableOffset {
		return nil, &FormatError{Pos: -1, Msg: "offset table exceeds buffer"}
	}

	offsets := make([]int64, numObjects)
	for i := range offsets {
		start := tableOffset + uint64(i)*uint64(offsetIntSize)
		off := int64(beInt(data[start : start+uint64(offsetIntSize)]))
		if off < int64(len(magic)) || off >= int64(tableOffset) {
			return nil, &FormatError{Pos: int64(start), Msg: "object offset out of range"}
		}
		offsets[i] = off
	}

	return &decoder{
		data:    data,
		offsets: offsets,
		refSize: refSize,
		top:     topObject,
		bodyEnd: int64(tableOffset),
		objects: make([]Object, numObjects),
		pending: make([]bool, numObjects),
	}, nil
}

// object decodes the table entry with the given UID, memoizing the result
// so that repeated references yield the identical value.
func (d *decoder) object(uid uint64) (Object, error) {
	if uid >= uint64(len(d.offsets)) {
		return nil, &FormatError{Pos: -1, Msg: "object reference out of range"}
	}
	if d.objects[uid] != nil {
		return d.objects[uid], nil
	}
	if d.pending[uid] {
		return nil, &FormatError{Pos: d.offsets[uid], Msg: "circular container reference"}
	}
	d.pending[uid] = true
	obj, err := d.parse(d.offsets[uid])
	d.pending[uid] = false
	if err != nil {
		return nil, err
	}
	d.objects[uid] = obj
	return obj, nil
}

func (d *decoder) parse(off int64) (Object, error) {
	marker := d.data[off]
	info := int(marker & 0x0F)

	switch marker >> 4 {
	case 0x0:
		switch marker {
		case 0x00:
			return Null{}, nil
		case 0x08:
			return Boolean(false), nil
		case 0x09:
			return Boolean(true), nil
		}
		return nil, &FormatError{Pos: off, Msg: "unknown singleton marker"}

	case 0x1: // integer, 2^info bytes big-endian
		size := 1 << info
		raw, err := d.bytesAt(off+1, size)
		if err != nil {
			return nil, err
		}
		switch size {
		case 1, 2, 4:
			// Sizes below 8 bytes are always unsigned on the wire.
			return Integer(beInt(raw)), nil
		case 8:
			return Integer(int64(beInt(raw))), nil
		}
		return nil, &FormatError{Pos: off, Msg: "unsupported integer width"}

	case 0x2: // real, 2^info bytes IEEE-754
		size := 1 << info
		raw, err := d.bytesAt(off+1, size)
		if err != nil {
			return nil, err
		}
		switch size {
		case 4:
			return Real(math.Float32frombits(uint32(beInt(raw)))), nil
		case 8:
			return Real(math.Float64frombits(beInt(raw))), nil
		}
		return nil, &FormatError{Pos: off, Msg: "unsupported real width"}

	case 0x3: // date, 8-byte float seconds since the reference epoch
		if marker != 0x33 {
			return nil, &FormatError{Pos: off, Msg: "unknown date marker"}
		}
		raw, err := d.bytesAt(off+1, 8)
		if err != nil {
			return nil, err
		}
		return Date(math.Float64frombits(beInt(raw))), nil

	case 0x4: // data
		count, body, err := d.count(off, info)
		if err != nil {
			return nil, err
		}
		raw, err := d.bytesAt(body, count)
		if err != nil {
			return nil, err
		}
		return Data(append([]byte(nil), raw...)), nil

	case 0x5: // ASCII string
		count, body, err := d.count(off, info)
		if err != nil {
			return nil, err
		}
		raw, err := d.bytesAt(body, count)
		if err != nil {
			return nil, err
		}
		return String(raw), nil

	case 0x6: // UTF-16BE string, count is in code units
		count, body, err := d.count(off, info)
		if err != nil {
			return nil, err
		}
		raw, err := d.bytesAt(body, count*2)
		if err != nil {
			return nil, err
		}
		decoded, err := utf16be.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, &FormatError{Pos: body, Msg: "invalid UTF-16 string", Err: err}
		}
		return String(decoded), nil

	case 0x8: // UID, info+1 bytes big-endian
		raw, err := d.bytesAt(off+1, info+1)
		if err != nil {
			return nil, err
		}
		return UID(beInt(raw)), nil

	case 0xA: // array of object references
		count, body, err := d.count(off, info)
		if err != nil {
			return nil, err
		}
		arr := make(Array, count)
		for i := 0; i < count; i++ {
			ref, err := d.ref(body + int64(i*d.refSize))
			if err != nil {
				return nil, err
			}
			if arr[i], err = d.object(ref); err != nil {
				return nil, err
			}
		}
		return arr, nil

	case 0xD: // dictionary: count key refs followed by count value refs
		count, body, err := d.count(off, info)
		if err != nil {
			return nil, err
		}
		dict := NewDictionary()
		for i := 0; i < count; i++ {
			keyRef, err := d.ref(body + int64(i*d.refSize))
			if err != nil {
				return nil, err
			}
			valRef, err := d.ref(body + int64((count+i)*d.refSize))
			if err != nil {
				return nil, err
			}
			keyObj, err := d.object(keyRef)
			if err != nil {
				return nil, err
			}
			key, ok := keyObj.(String)
			if !ok {
				return nil, &FormatError{Pos: off, Msg: "dictionary key is not a string"}
			}
			val, err := d.object(valRef)
			if err != nil {
				return nil, err
			}
			dict.Set(string(key), val)
		}
		return dict, nil
	}

	return nil, &FormatError{Pos: off, Msg: "unsupported object marker"}
}

// count reads an object's element count. A low nibble of 0xF means the
// real count follows as an inline integer object.
func (d *decoder) count(off int64, info int) (int, int64, error) {
	if info != 0x0F {
		return info, off + 1, nil
	}
	markerByte, err := d.bytesAt(off+1, 1)
	if err != nil {
		return 0, 0, err
	}
	intMarker := markerByte[0]
	if intMarker>>4 != 0x1 {
		return 0, 0, &FormatError{Pos: off + 1, Msg: "expected integer count"}
	}
	size := 1 << (intMarker & 0x0F)
	raw, err := d.bytesAt(off+2, size)
	if err != nil {
		return 0, 0, err
	}
	n := beInt(raw)
	if n > uint64(len(d.data)) {
		return 0, 0, &FormatError{Pos: off + 1, Msg: "element count exceeds buffer"}
	}
	return int(n), off + 2 + int64(size), nil
}

func (d *decoder) ref(off int64) (uint64, error) {
	raw, err := d.bytesAt(off, d.refSize)
	if err != nil {
		return 0, err
	}
	return beInt(raw), nil
}

func (d *decoder) bytesAt(off int64, n int) ([]byte, error) {
	end := off + int64(n)
	if off < 0 || end > d.bodyEnd {
		return nil, &FormatError{Pos: off, Msg: "object extends past end of buffer"}
	}
	return d.data[off:end], nil
}

// beInt reads a big-endian unsigned integer of 1 to 8 bytes.
func beInt(raw []byte) uint64 {
	var v uint64
	for _, b := range raw {
		v = v<<8 | uint64(b)
	}
	return v
}
