package burrow

import "fmt"

// filterSet is a bitset of which Filters fields are set, mirroring
// burrow_filters_set_t.
type filterSet uint8

const (
	filterMatchHidden filterSet = 1 << iota
	filterLimit
	filterMarker
	filterDetail
	filterWait
)

// Detail selects how much information a range command should return per
// element.
type Detail int

const (
	DetailNone Detail = iota
	DetailID
	DetailAttributes
	DetailBody
	DetailAll
)

// String returns the wire encoding used in the HTTP backend's detail query
// parameter.
func (d Detail) String() string {
	switch d {
	case DetailNone:
		return "none"
	case DetailID:
		return "id"
	case DetailAttributes:
		return "attributes"
	case DetailBody:
		return "body"
	case DetailAll:
		return "all"
	default:
		return fmt.Sprintf("detail(%d)", int(d))
	}
}

// Filters is a per-field-optional record of range-scan parameters. Each
// field has an independent is-set bit; Get on an unset field returns the
// zero value.
//
// The zero Filters value has no fields set, and is ready to use.
type Filters struct {
	set         filterSet
	matchHidden bool
	limit       uint32
	marker      string
	detail      Detail
	wait        uint32
}

// NewFilters returns a zero-valued Filters, with no fields set.
func NewFilters() *Filters {
	return &Filters{}
}

// SetMatchHidden sets whether a range scan includes hidden messages.
func (f *Filters) SetMatchHidden(v bool) {
	f.matchHidden = v
	f.set |= filterMatchHidden
}

func (f *Filters) MatchHidden() bool   { return f.matchHidden }
func (f *Filters) IsSetMatchHidden() bool {
	return f.set&filterMatchHidden != 0
}
func (f *Filters) UnsetMatchHidden() {
	f.set &^= filterMatchHidden
	f.matchHidden = false
}

// SetLimit caps the number of elements a range scan returns.
func (f *Filters) SetLimit(v uint32) {
	f.limit = v
	f.set |= filterLimit
}

func (f *Filters) Limit() uint32      { return f.limit }
func (f *Filters) IsSetLimit() bool   { return f.set&filterLimit != 0 }
func (f *Filters) UnsetLimit() {
	f.set &^= filterLimit
	f.limit = 0
}

// SetMarker sets the starting key for a range scan.
func (f *Filters) SetMarker(v string) {
	f.marker = v
	f.set |= filterMarker
}

func (f *Filters) Marker() string     { return f.marker }
func (f *Filters) IsSetMarker() bool  { return f.set&filterMarker != 0 }
func (f *Filters) UnsetMarker() {
	f.set &^= filterMarker
	f.marker = ""
}

// SetDetail sets the amount of detail a range command returns per element.
func (f *Filters) SetDetail(v Detail) {
	f.detail = v
	f.set |= filterDetail
}

func (f *Filters) Detail() Detail     { return f.detail }
func (f *Filters) IsSetDetail() bool  { return f.set&filterDetail != 0 }
func (f *Filters) UnsetDetail() {
	f.set &^= filterDetail
	f.detail = DetailNone
}

// SetWait sets the long-poll hint, in seconds, for the HTTP backend.
func (f *Filters) SetWait(v uint32) {
	f.wait = v
	f.set |= filterWait
}

func (f *Filters) Wait() uint32    { return f.wait }
func (f *Filters) IsSetWait() bool { return f.set&filterWait != 0 }
func (f *Filters) UnsetWait() {
	f.set &^= filterWait
	f.wait = 0
}

// Clone returns a copy of f, including its set-bitmask. A nil receiver
// clones to a fresh zero-valued Filters.
func (f *Filters) Clone() *Filters {
	if f == nil {
		return NewFilters()
	}
	clone := *f
	return &clone
}
