package plist_test

import (
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AOShei/procreate-meta/pkg/plist"
	"github.com/AOShei/procreate-meta/pkg/plist/plisttest"
)

func TestDecodeScalars(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *plisttest.Builder) uint64
		want  plist.Object
	}{
		{"null", func(b *plisttest.Builder) uint64 { return b.Null() }, plist.Null{}},
		{"true", func(b *plisttest.Builder) uint64 { return b.Bool(true) }, plist.Boolean(true)},
		{"false", func(b *plisttest.Builder) uint64 { return b.Bool(false) }, plist.Boolean(false)},
		{"int one byte", func(b *plisttest.Builder) uint64 { return b.Int(0xFF) }, plist.Integer(255)},
		{"int two bytes", func(b *plisttest.Builder) uint64 { return b.Int(0xFFFE) }, plist.Integer(65534)},
		{"int four bytes", func(b *plisttest.Builder) uint64 { return b.Int(1 << 30) }, plist.Integer(1 << 30)},
		{"int negative", func(b *plisttest.Builder) uint64 { return b.Int(-12) }, plist.Integer(-12)},
		{"real", func(b *plisttest.Builder) uint64 { return b.Real(132.5) }, plist.Real(132.5)},
		{"date", func(b *plisttest.Builder) uint64 { return b.Date(694224000.25) }, plist.Date(694224000.25)},
		{"data", func(b *plisttest.Builder) uint64 { return b.Data([]byte{1, 2, 3}) }, plist.Data{1, 2, 3}},
		{"ascii string", func(b *plisttest.Builder) uint64 { return b.ASCII("Canvas") }, plist.String("Canvas")},
		{"long ascii string", func(b *plisttest.Builder) uint64 {
			return b.ASCII("SilicaDocumentArchiveDPIKey")
		}, plist.String("SilicaDocumentArchiveDPIKey")},
		{"utf16 string", func(b *plisttest.Builder) uint64 { return b.UTF16("épreuve ▲") }, plist.String("épreuve ▲")},
		{"uid", func(b *plisttest.Builder) uint64 { return b.UID(7) }, plist.UID(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b plisttest.Builder
			top := tt.build(&b)
			got, err := plist.Decode(b.Bytes(top))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// One-, two- and four-byte integers are unsigned on the wire; only
// eight-byte integers carry a sign.
func TestDecodeIntegerSignExtension(t *testing.T) {
	var b plisttest.Builder
	small := b.RawObject([]byte{0x10, 0xFF})       // 1 byte: 255, not -1
	wide := b.RawObject(append([]byte{0x13}, 0xFF, // 8 bytes: -1
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF))
	top := b.Array(small, wide)

	got, err := plist.Decode(b.Bytes(top))
	require.NoError(t, err)
	assert.Equal(t, plist.Array{plist.Integer(255), plist.Integer(-1)}, got)
}

func TestDecodeFloat32Real(t *testing.T) {
	enc := make([]byte, 5)
	enc[0] = 0x22
	binary.BigEndian.PutUint32(enc[1:], 0x42F60000) // 123.0

	var b plisttest.Builder
	top := b.RawObject(enc)
	got, err := plist.Decode(b.Bytes(top))
	require.NoError(t, err)
	assert.Equal(t, plist.Real(123), got)
}

func TestDecodeDictionaryKeepsKeyOrder(t *testing.T) {
	var b plisttest.Builder
	top := b.Dict(
		"zebra", b.Int(1),
		"apple", b.Int(2),
		"mango", b.Int(3),
	)

	got, err := plist.Decode(b.Bytes(top))
	require.NoError(t, err)

	dict, ok := got.(*plist.Dictionary)
	require.True(t, ok, "top object should be a dictionary, got %T", got)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, dict.Keys())

	v, ok := dict.Get("apple")
	require.True(t, ok)
	assert.Equal(t, plist.Integer(2), v)
}

func TestDecodeNestedGraph(t *testing.T) {
	var b plisttest.Builder
	inner := b.Dict(
		"width", b.Real(2048),
		"height", b.Real(1536),
	)
	top := b.Dict(
		"canvasSize", inner,
		"layers", b.Array(b.ASCII("bg"), b.ASCII("sketch")),
		"orientation", b.Int(1),
	)

	got, err := plist.Decode(b.Bytes(top))
	require.NoError(t, err)

	dict := got.(*plist.Dictionary)
	size, _ := dict.Get("canvasSize")
	sizeDict, ok := size.(*plist.Dictionary)
	require.True(t, ok)

	w, _ := sizeDict.Get("width")
	if diff := cmp.Diff(plist.Real(2048), w); diff != "" {
		t.Errorf("width mismatch (-want +got):\n%s", diff)
	}

	layers, _ := dict.Get("layers")
	assert.Equal(t, plist.Array{plist.String("bg"), plist.String("sketch")}, layers)
}

// A subgraph referenced from two places must decode to the same value, not
// a copy.
func TestDecodePreservesSharedIdentity(t *testing.T) {
	var b plisttest.Builder
	shared := b.Dict("name", b.ASCII("Display P3"))
	top := b.Dict(
		"first", shared,
		"second", shared,
	)

	got, err := plist.Decode(b.Bytes(top))
	require.NoError(t, err)

	dict := got.(*plist.Dictionary)
	first, _ := dict.Get("first")
	second, _ := dict.Get("second")
	assert.Same(t, first.(*plist.Dictionary), second.(*plist.Dictionary))
}

func TestDecodeRejectsCircularContainer(t *testing.T) {
	// An array whose single element is the array itself.
	var b plisttest.Builder
	top := b.RawObject([]byte{0xA1, 0x00, 0x00})

	_, err := plist.Decode(b.Bytes(top))
	var fe *plist.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Error(), "circular")
}

func TestDecodeMalformedInputs(t *testing.T) {
	valid := func() []byte {
		var b plisttest.Builder
		return b.Bytes(b.Int(1))
	}()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", append([]byte("notaplist"), valid[9:]...)},
		{"truncated trailer", valid[:len(valid)-10]},
		{"zero objects", func() []byte {
			data := append([]byte(nil), valid...)
			binary.BigEndian.PutUint64(data[len(data)-24:], 0)
			return data
		}()},
		{"top object out of range", func() []byte {
			data := append([]byte(nil), valid...)
			binary.BigEndian.PutUint64(data[len(data)-16:], 99)
			return data
		}()},
		{"offset table past end", func() []byte {
			data := append([]byte(nil), valid...)
			binary.BigEndian.PutUint64(data[len(data)-8:], uint64(len(data)))
			return data
		}()},
		{"zero offset width", func() []byte {
			data := append([]byte(nil), valid...)
			data[len(data)-26] = 0
			return data
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plist.Decode(tt.data)
			var fe *plist.FormatError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func TestDecodeTruncatedObjectBody(t *testing.T) {
	// Marker claims a 4-byte integer but the body is cut off by the
	// offset table.
	var b plisttest.Builder
	top := b.RawObject([]byte{0x12, 0x00})

	_, err := plist.Decode(b.Bytes(top))
	var fe *plist.FormatError
	assert.ErrorAs(t, err, &fe)
}

func TestDecodeExtendedCounts(t *testing.T) {
	var b plisttest.Builder
	refs := make([]uint64, 20)
	for i := range refs {
		refs[i] = b.Int(int64(i))
	}
	top := b.Array(refs...)

	got, err := plist.Decode(b.Bytes(top))
	require.NoError(t, err)

	arr, ok := got.(plist.Array)
	require.True(t, ok)
	require.Len(t, arr, 20)
	assert.Equal(t, plist.Integer(19), arr[19])
}
