// Package silica extracts the stable metadata schema from a Procreate
// document archive root. Procreate has renamed and reshaped its archive
// keys across versions; every field is looked up through an ordered
// fallback table and degrades to a documented default instead of failing,
// so one extractor handles files from any producing version.
package silica

import (
	"strconv"
	"strings"

	"github.com/AOShei/procreate-meta/pkg/model"
	"github.com/AOShei/procreate-meta/pkg/plist"
)

// Orientation literals emitted in the schema.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
	OrientationUnknown   = "unknown"
)

// Per-field key precedence, first match wins. Bare names are the modern
// schema; the Silica* names are the legacy archive constants.
var (
	canvasKeys    = []string{"canvasSize", "size"}
	dpiKeys       = []string{"dpi", "SilicaDocumentArchiveDPIKey"}
	timeSpentKeys = []string{"timeSpentDrawing", "SilicaDocumentTrackedTimeKey"}
	versionKeys   = []string{"appVersion", "version"}
	createdKeys   = []string{"creationDate", "SilicaDocumentArchiveCreationDateKey", "documentCreationDate"}
	modifiedKeys  = []string{"lastModifiedDate", "SilicaDocumentArchiveModificationDateKey", "modificationDate"}
)

// Resolver maps archive reference values to the objects they name.
// *keyedarchive.Archive satisfies it.
type Resolver interface {
	Resolve(obj plist.Object) plist.Object
}

// TimeSource supplies container-level modification times used when the
// archive itself carries no usable timestamps. *container.Container
// satisfies it.
type TimeSource interface {
	// PreviewModTime is the stored modification time of the embedded
	// preview entry. It is refreshed on every save, which makes it the
	// preferred fallback.
	PreviewModTime() (t int64, ok bool)
	// ArchiveModTime is the stored modification time of the main archive
	// entry.
	ArchiveModTime() (t int64, ok bool)
}

// Extract applies the per-field fallback rules to the archive root and
// returns the archive-derived schema fields. Hash, thumbnail and source
// path are filled in by the caller. times may be nil when no container
// timestamps are available.
func Extract(root *plist.Dictionary, res Resolver, times TimeSource) *model.Document {
	x := &extractor{root: root, res: res}

	doc := &model.Document{
		Orientation: x.orientation(),
		DPI:         x.uintField(dpiKeys),
		TimeSpent:   x.uintField(timeSpentKeys),
		LayerCount:  x.layerCount(),
	}
	doc.CanvasWidth, doc.CanvasHeight = x.canvasSize()
	doc.ColorProfile = x.colorProfile()
	doc.Version = x.stringField(versionKeys)
	doc.CreatedAt, doc.UpdatedAt = x.timestamps(times)
	return doc
}

type extractor struct {
	root *plist.Dictionary
	res  Resolver
}

// lookup returns the value of the first present key. A key archived with
// an explicit null counts as absent.
func (x *extractor) lookup(keys []string) (plist.Object, bool) {
	for _, key := range keys {
		if v, ok := x.root.Get(key); ok {
			if _, isNull := v.(plist.Null); isNull {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

func (x *extractor) uintField(keys []string) uint {
	v, ok := x.lookup(keys)
	if !ok {
		return 0
	}
	n, ok := asUint(v)
	if !ok {
		return 0
	}
	return n
}

func (x *extractor) stringField(keys []string) *string {
	v, ok := x.lookup(keys)
	if !ok {
		return nil
	}
	s, ok := v.(plist.String)
	if !ok {
		return nil
	}
	out := string(s)
	return &out
}

func (x *extractor) orientation() string {
	v, ok := x.root.Get("orientation")
	if !ok {
		return OrientationUnknown
	}
	code, ok := asInt(v)
	if !ok {
		return OrientationUnknown
	}
	switch code {
	case 1:
		return OrientationPortrait
	case 2:
		return OrientationLandscape
	default:
		return OrientationUnknown
	}
}

// canvasSize handles both historical shapes: a width/height record and a
// brace-delimited "{w, h}" string. Anything else yields 0/0.
func (x *extractor) canvasSize() (uint, uint) {
	v, ok := x.lookup(canvasKeys)
	if !ok {
		return 0, 0
	}
	switch size := x.res.Resolve(v).(type) {
	case *plist.Dictionary:
		w, _ := asUintKey(size, "width")
		h, _ := asUintKey(size, "height")
		return w, h
	case plist.String:
		return parseSizeString(string(size))
	default:
		return 0, 0
	}
}

// parseSizeString parses the "{width, height}" canvas representation.
// Numbers are truncated toward zero. Only recognizably foreign shapes
// degrade to 0/0; there is deliberately no blanket error suppression here.
func parseSizeString(s string) (w, h uint) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return 0, 0
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return 0, 0
	}
	wf, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hf, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || wf < 0 || hf < 0 {
		return 0, 0
	}
	return uint(wf), uint(hf)
}

// layerCount prefers an explicit count key; otherwise it resolves the
// layers reference and measures it. Modern archives wrap the layer list
// in an NSArray record whose elements live under NS.objects.
func (x *extractor) layerCount() uint {
	if v, ok := x.lookup([]string{"layerCount"}); ok {
		if n, ok := asUint(v); ok {
			return n
		}
	}
	v, ok := x.root.Get("layers")
	if !ok {
		return 0
	}
	switch layers := x.res.Resolve(v).(type) {
	case *plist.Dictionary:
		if objs, ok := layers.Get("NS.objects"); ok {
			if arr, ok := objs.(plist.Array); ok {
				return uint(len(arr))
			}
		}
		return 0
	case plist.Array:
		return uint(len(layers))
	default:
		return 0
	}
}

// colorProfile resolves the colorProfile reference. A profile record
// prefers the resolved ICC-name key; older records carry the name as a
// direct string field. Some versions archive the profile name itself.
func (x *extractor) colorProfile() *string {
	v, ok := x.root.Get("colorProfile")
	if !ok {
		return nil
	}
	switch profile := x.res.Resolve(v).(type) {
	case *plist.Dictionary:
		if iccRef, ok := profile.Get("SiColorProfileArchiveICCNameKey"); ok {
			if s, ok := x.res.Resolve(iccRef).(plist.String); ok {
				out := string(s)
				return &out
			}
		}
		for _, key := range []string{"name", "iccName"} {
			if s, ok := profile.Get(key); ok {
				if str, ok := s.(plist.String); ok {
					out := string(str)
					return &out
				}
			}
		}
		return nil
	case plist.String:
		out := string(profile)
		return &out
	default:
		return nil
	}
}

func asUintKey(d *plist.Dictionary, key string) (uint, bool) {
	v, ok := d.Get(key)
	if !ok {
		return 0, false
	}
	return asUint(v)
}

// asInt coerces the numeric value shapes that occur in Procreate archives,
// truncating reals toward zero.
func asInt(v plist.Object) (int64, bool) {
	switch n := v.(type) {
	case plist.Integer:
		return int64(n), true
	case plist.Real:
		return int64(n), true
	default:
		return 0, false
	}
}

func asUint(v plist.Object) (uint, bool) {
	n, ok := asInt(v)
	if !ok || n < 0 {
		return 0, false
	}
	return uint(n), true
}
