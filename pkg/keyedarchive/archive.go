// Package keyedarchive resolves NSKeyedArchiver property lists: a flat
// object table ("$objects") plus named top-level entries ("$top") whose
// values reference into the table.
package keyedarchive

import (
	"github.com/AOShei/procreate-meta/pkg/plist"
)

// Archive is a decoded keyed archive.
type Archive struct {
	objects plist.Array
	top     *plist.Dictionary
}

// Open decodes a binary property list and interprets it as a keyed
// archive.
func Open(data []byte) (*Archive, error) {
	obj, err := plist.Decode(data)
	if err != nil {
		return nil, err
	}
	return FromObject(obj)
}

// FromObject interprets an already-decoded property list as a keyed
// archive.
func FromObject(obj plist.Object) (*Archive, error) {
	dict, ok := obj.(*plist.Dictionary)
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "archive top level is not a dictionary"}
	}
	objsVal, ok := dict.Get("$objects")
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "archive has no $objects table"}
	}
	objects, ok := objsVal.(plist.Array)
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "$objects is not an array"}
	}
	topVal, ok := dict.Get("$top")
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "archive has no $top entry"}
	}
	top, ok := topVal.(*plist.Dictionary)
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "$top is not a dictionary"}
	}
	return &Archive{objects: objects, top: top}, nil
}

// UID returns the object-table index carried by a reference-shaped value.
// Both representations are recognized: the native plist UID type and the
// single-key {"CF$UID": n} wrapper left behind by plist-to-plist
// transcoding. A record that merely contains a CF$UID key among others is
// not a reference.
func UID(obj plist.Object) (uint64, bool) {
	switch v := obj.(type) {
	case plist.UID:
		return uint64(v), true
	case *plist.Dictionary:
		if v.Len() != 1 {
			return 0, false
		}
		if n, ok := v.Get("CF$UID"); ok {
			if i, ok := n.(plist.Integer); ok && i >= 0 {
				return uint64(i), true
			}
		}
	}
	return 0, false
}

// Resolve maps a reference-shaped value to the table object it names.
// Anything else, including values that were archived inline, is returned
// unchanged. References past the end of the table resolve to Null.
func (a *Archive) Resolve(obj plist.Object) plist.Object {
	uid, ok := UID(obj)
	if !ok {
		return obj
	}
	v, ok := a.Object(uid)
	if !ok {
		return plist.Null{}
	}
	return v
}

// Object returns the table entry at uid.
func (a *Archive) Object(uid uint64) (plist.Object, bool) {
	if uid >= uint64(len(a.objects)) {
		return nil, false
	}
	return a.objects[uid], true
}

// Objects returns the full object table, for diagnostic dumps.
func (a *Archive) Objects() plist.Array { return a.objects }

// Top returns the named top-level entries, for diagnostic dumps.
func (a *Archive) Top() *plist.Dictionary { return a.top }

// Root resolves the archive's designated root record. The root entry must
// be a reference into the table and must name a dictionary.
func (a *Archive) Root() (*plist.Dictionary, error) {
	rootRef, ok := a.top.Get("root")
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "$top has no root entry"}
	}
	uid, ok := UID(rootRef)
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "root entry is not a reference"}
	}
	obj, ok := a.Object(uid)
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "root reference is out of range"}
	}
	root, ok := obj.(*plist.Dictionary)
	if !ok {
		return nil, &plist.FormatError{Pos: -1, Msg: "root object is not a dictionary"}
	}
	return root, nil
}
