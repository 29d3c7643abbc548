package desim

// Tag is an application-defined label attached to a Process, used to
// classify processes for filtering, metrics breakdowns, or conditional
// logic in a model. Tags are plain strings rather than a closed enum, so
// a model can define its own vocabulary.
//
// Grounded on greensim/tags.GreensimTag and its TaggedObject: the
// original defines tags as an Enum applied to a "tagged object" via
// apply/apply_set/remove/remove_set/match/clear. This package flattens
// that onto Process directly, using Go's map[Tag]struct{} idiom for set
// membership instead of a bespoke container.
type Tag string

// TagSet is a set of Tags. The zero value is an empty set.
type TagSet map[Tag]struct{}

// NewTagSet builds a TagSet from the given tags.
func NewTagSet(tags ...Tag) TagSet {
	ts := make(TagSet, len(tags))
	for _, t := range tags {
		ts[t] = struct{}{}
	}
	return ts
}

// Has reports whether t is a member of the set.
func (ts TagSet) Has(t Tag) bool {
	_, ok := ts[t]
	return ok
}

// Apply adds t to the set, initializing the zero value in place first if
// needed.
func (ts *TagSet) Apply(t Tag) {
	if *ts == nil {
		*ts = make(TagSet, 1)
	}
	(*ts)[t] = struct{}{}
}

// ApplySet adds every tag in other to the set, initializing the zero
// value in place first if needed.
func (ts *TagSet) ApplySet(other TagSet) {
	if len(other) == 0 {
		return
	}
	if *ts == nil {
		*ts = make(TagSet, len(other))
	}
	for t := range other {
		(*ts)[t] = struct{}{}
	}
}

// Remove removes t from the set, if present.
func (ts TagSet) Remove(t Tag) {
	delete(ts, t)
}

// RemoveSet removes every tag in other from the set.
func (ts TagSet) RemoveSet(other TagSet) {
	for t := range other {
		delete(ts, t)
	}
}

// Clear empties the set in place.
func (ts TagSet) Clear() {
	for t := range ts {
		delete(ts, t)
	}
}

// Match reports whether the set contains every tag in required (an "all
// of" match, mirroring TaggedObject.match's default conjunction).
func (ts TagSet) Match(required ...Tag) bool {
	for _, t := range required {
		if !ts.Has(t) {
			return false
		}
	}
	return true
}

// Union returns a new TagSet containing every tag from ts and other,
// leaving both inputs unmodified. Used to combine a spawning Process's
// tags with the tags declared on a spawned body via WithTags.
func (ts TagSet) Union(other TagSet) TagSet {
	out := make(TagSet, len(ts)+len(other))
	for t := range ts {
		out[t] = struct{}{}
	}
	for t := range other {
		out[t] = struct{}{}
	}
	return out
}
