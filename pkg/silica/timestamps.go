package silica

import "github.com/AOShei/procreate-meta/pkg/plist"

// Archive timestamps are floating-point seconds since the Apple reference
// epoch, 2001-01-01T00:00:00Z. Adding this constant converts to unix time.
const referenceEpochOffset = 978307200

// timestamps resolves created/updated through their fallback chains,
// substitutes container modification times for fields the archive leaves
// unset, and clamps so that created never exceeds updated.
func (x *extractor) timestamps(times TimeSource) (created, updated *int64) {
	created = x.timeField(createdKeys)
	updated = x.timeField(modifiedKeys)

	if (created == nil || updated == nil) && times != nil {
		if ts, ok := containerTime(times); ok {
			if created == nil {
				created = cloneInt64(ts)
			}
			if updated == nil {
				updated = cloneInt64(ts)
			}
		}
	}

	if created != nil && updated != nil && *created > *updated {
		created = cloneInt64(*updated)
	}
	return created, updated
}

// timeField converts the first usable archive timestamp to unix seconds,
// truncating toward zero. Date values are native archive timestamps;
// plain reals and integers occur in archives that stored the interval
// directly. Reference-shaped or otherwise foreign values are unusable.
func (x *extractor) timeField(keys []string) *int64 {
	v, ok := x.lookup(keys)
	if !ok {
		return nil
	}
	var secs float64
	switch t := v.(type) {
	case plist.Date:
		secs = float64(t)
	case plist.Real:
		secs = float64(t)
	case plist.Integer:
		secs = float64(t)
	default:
		return nil
	}
	return cloneInt64(int64(secs + referenceEpochOffset))
}

// containerTime prefers the preview entry's stored modification time,
// falling back to the archive entry's.
func containerTime(times TimeSource) (int64, bool) {
	if ts, ok := times.PreviewModTime(); ok {
		return ts, true
	}
	return times.ArchiveModTime()
}

func cloneInt64(v int64) *int64 { return &v }
