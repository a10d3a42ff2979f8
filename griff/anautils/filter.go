package anautils

import (
	"math"

	"github.com/arloliu/griff/griff"
)

// Filter selects values of type T.
type Filter[T any] interface {
	Filter(v T) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc[T any] func(v T) bool

func (f FilterFunc[T]) Filter(v T) bool { return f(v) }

type (
	TrackFilter   = Filter[griff.Track]
	SegmentFilter = Filter[griff.Segment]
	StepFilter    = Filter[griff.Step]
)

type negated[T any] struct{ f Filter[T] }

func (n negated[T]) Filter(v T) bool { return !n.f.Filter(v) }

// Not inverts f. Not(Not(f)) returns f.
func Not[T any](f Filter[T]) Filter[T] {
	if n, ok := f.(negated[T]); ok {
		return n.f
	}

	return negated[T]{f: f}
}

func accept[T any](filters []Filter[T], v T) bool {
	for _, f := range filters {
		if !f.Filter(v) {
			return false
		}
	}

	return true
}

// PDGCodeFilter accepts tracks whose PDG code is in a set. In unsigned mode
// the code of the antiparticle matches too.
type PDGCodeFilter struct {
	codes    map[int32]struct{}
	unsigned bool
}

func NewPDGCodeFilter(codes ...int32) *PDGCodeFilter {
	f := &PDGCodeFilter{codes: make(map[int32]struct{}, len(codes))}
	f.AddCodes(codes...)

	return f
}

// AddCodes adds codes to the accepted set.
func (f *PDGCodeFilter) AddCodes(codes ...int32) *PDGCodeFilter {
	for _, c := range codes {
		f.codes[c] = struct{}{}
	}

	return f
}

// SetUnsigned makes the filter ignore the sign of the codes.
func (f *PDGCodeFilter) SetUnsigned(unsigned bool) *PDGCodeFilter {
	f.unsigned = unsigned
	return f
}

func (f *PDGCodeFilter) Unsigned() bool { return f.unsigned }

func (f *PDGCodeFilter) Filter(t griff.Track) bool {
	code := t.PDGCode()
	if _, ok := f.codes[code]; ok {
		return true
	}
	if f.unsigned {
		_, ok := f.codes[-code]
		return ok
	}

	return false
}

// ChargedFilter accepts tracks of charged particles.
type ChargedFilter struct{}

func (ChargedFilter) Filter(t griff.Track) bool { return t.Charge() != 0 }

// DescendantFilter accepts tracks that descend from the track with
// AncestorID. The ancestor itself is not accepted.
type DescendantFilter struct {
	AncestorID int32
}

func (f DescendantFilter) Filter(t griff.Track) bool {
	for p, ok := t.Parent(); ok; p, ok = p.Parent() {
		if p.ID() == f.AncestorID {
			return true
		}
	}

	return false
}

// VolumeFilter accepts segments in a volume called Name at Depth, 0 being
// the innermost volume.
type VolumeFilter struct {
	Name     string
	Physical bool
	Depth    int
}

func (f VolumeFilter) Filter(s griff.Segment) bool {
	if f.Depth < 0 || f.Depth >= s.VolumeDepthStored() {
		return false
	}
	if f.Physical {
		return s.PhysicalVolumeName(f.Depth) == f.Name
	}

	return s.VolumeName(f.Depth) == f.Name
}

// EKinFilter accepts segments whose start and end kinetic energies lie in
// the configured ranges. Unset bounds are open.
type EKinFilter struct {
	minStart, maxStart float64
	minEnd, maxEnd     float64
}

func NewEKinFilter() *EKinFilter {
	return &EKinFilter{
		minStart: math.Inf(-1), maxStart: math.Inf(1),
		minEnd: math.Inf(-1), maxEnd: math.Inf(1),
	}
}

func (f *EKinFilter) SetMinStartEKin(e float64) *EKinFilter { f.minStart = e; return f }
func (f *EKinFilter) SetMaxStartEKin(e float64) *EKinFilter { f.maxStart = e; return f }
func (f *EKinFilter) SetMinEndEKin(e float64) *EKinFilter   { f.minEnd = e; return f }
func (f *EKinFilter) SetMaxEndEKin(e float64) *EKinFilter   { f.maxEnd = e; return f }

func (f *EKinFilter) Filter(s griff.Segment) bool {
	e0, e1 := s.StartEKin(), s.EndEKin()
	return e0 >= f.minStart && e0 <= f.maxStart && e1 >= f.minEnd && e1 <= f.maxEnd
}

// TimeMode selects how TimeFilter compares a segment with its time.
type TimeMode int

const (
	StartsBefore TimeMode = iota
	StartsAfter
	EndsBefore
	EndsAfter
	// Contains accepts segments that start before and end after the time.
	Contains
)

// TimeFilter accepts segments by their start and end time.
type TimeFilter struct {
	Time float64
	Mode TimeMode
}

func (f TimeFilter) Filter(s griff.Segment) bool {
	switch f.Mode {
	case StartsBefore:
		return s.StartTime() < f.Time
	case StartsAfter:
		return s.StartTime() > f.Time
	case EndsBefore:
		return s.EndTime() < f.Time
	case EndsAfter:
		return s.EndTime() > f.Time
	default:
		return s.StartTime() < f.Time && s.EndTime() > f.Time
	}
}

// EnergyDepositionFilter accepts segments or steps depositing more than Min.
// With NonIonizing the non-ionizing part is compared instead.
type EnergyDepositionFilter struct {
	Min         float64
	NonIonizing bool
}

func (f EnergyDepositionFilter) Filter(s griff.Segment) bool {
	if f.NonIonizing {
		return float64(s.EDepNonIon()) > f.Min
	}

	return float64(s.EDep()) > f.Min
}

// Step returns the same selection applied to steps.
func (f EnergyDepositionFilter) Step() StepFilter {
	return FilterFunc[griff.Step](func(s griff.Step) bool {
		if f.NonIonizing {
			return s.EDepNonIon() > f.Min
		}

		return s.EDep() > f.Min
	})
}
