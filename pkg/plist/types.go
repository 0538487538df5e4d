package plist

// Object is any value decoded from a binary property list: Null, Boolean,
// Integer, Real, Date, Data, String, UID, Array or *Dictionary.
type Object interface{}

// Null is the property list null singleton.
type Null struct{}

type Boolean bool

// Integer holds any archived integer. The wire format stores 1, 2 and
// 4 byte values unsigned and 8 byte values as two's complement.
type Integer int64

type Real float64

// Date is a timestamp in seconds relative to the Apple reference epoch
// (2001-01-01T00:00:00Z). Conversion to unix time is left to callers so
// that timestamp policy stays out of the decoder.
type Date float64

type Data []byte

type String string

// UID is an index into the archive's object table. It stands in for a
// value, enabling reference sharing between archived objects.
type UID uint64

type Array []Object

// Dictionary is a string-keyed record that preserves key insertion order.
type Dictionary struct {
	keys   []string
	values map[string]Object
}

func NewDictionary() *Dictionary {
	return &Dictionary{values: make(map[string]Object)}
}

func (d *Dictionary) Get(key string) (Object, bool) {
	v, ok := d.values[key]
	return v, ok
}

func (d *Dictionary) Set(key string, value Object) {
	if d.values == nil {
		d.values = make(map[string]Object)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Keys returns the dictionary keys in insertion order. The returned slice
// must not be modified.
func (d *Dictionary) Keys() []string { return d.keys }

func (d *Dictionary) Len() int { return len(d.keys) }
