package griff

import (
	"math"

	"github.com/arloliu/griff/encoding"
)

func uint32At(b []byte, off int) uint32 { return encoding.Uint32At(b, off) }

// Step is a stored step of a segment. In REDUCED mode the single step spans
// the whole segment.
type Step struct {
	dr  *DataReader
	seg int
	idx int
}

func (s Step) pre() int  { return s.dr.segments[s.seg].steps[s.idx].off }
func (s Step) post() int { return s.pre() + SizeStep }
func (s Step) raw() []byte {
	return s.dr.full
}

func (s Step) Segment() Segment { return Segment{dr: s.dr, idx: s.seg} }

func (s Step) Track() Track { return s.Segment().Track() }

// IndexInSegment returns the position of the step in its segment.
func (s Step) IndexInSegment() int { return s.idx }

// Next returns the following step in the segment.
func (s Step) Next() (Step, bool) {
	if s.idx+1 >= len(s.dr.segments[s.seg].steps) {
		return Step{}, false
	}

	return Step{dr: s.dr, seg: s.seg, idx: s.idx + 1}, true
}

// Previous returns the preceding step in the segment.
func (s Step) Previous() (Step, bool) {
	if s.idx == 0 {
		return Step{}, false
	}

	return Step{dr: s.dr, seg: s.seg, idx: s.idx - 1}, true
}

// Step point field offsets.
const (
	ptGlobal = 0
	ptTime   = 24
	ptEKin   = 32
	ptLocal  = 40
	ptMom    = 52
	ptProc   = 64
)

func (s Step) f64(off int) float64 { return encoding.Float64At(s.raw(), off) }
func (s Step) f32(off int) float64 { return float64(encoding.Float32At(s.raw(), off)) }

func (s Step) PreGlobalX() float64  { return s.f64(s.pre() + ptGlobal) }
func (s Step) PreGlobalY() float64  { return s.f64(s.pre() + ptGlobal + 8) }
func (s Step) PreGlobalZ() float64  { return s.f64(s.pre() + ptGlobal + 16) }
func (s Step) PostGlobalX() float64 { return s.f64(s.post() + ptGlobal) }
func (s Step) PostGlobalY() float64 { return s.f64(s.post() + ptGlobal + 8) }
func (s Step) PostGlobalZ() float64 { return s.f64(s.post() + ptGlobal + 16) }

func (s Step) PreLocalX() float64  { return s.f32(s.pre() + ptLocal) }
func (s Step) PreLocalY() float64  { return s.f32(s.pre() + ptLocal + 4) }
func (s Step) PreLocalZ() float64  { return s.f32(s.pre() + ptLocal + 8) }
func (s Step) PostLocalX() float64 { return s.f32(s.post() + ptLocal) }
func (s Step) PostLocalY() float64 { return s.f32(s.post() + ptLocal + 4) }
func (s Step) PostLocalZ() float64 { return s.f32(s.post() + ptLocal + 8) }

func (s Step) PreMomentumX() float64  { return s.f32(s.pre() + ptMom) }
func (s Step) PreMomentumY() float64  { return s.f32(s.pre() + ptMom + 4) }
func (s Step) PreMomentumZ() float64  { return s.f32(s.pre() + ptMom + 8) }
func (s Step) PostMomentumX() float64 { return s.f32(s.post() + ptMom) }
func (s Step) PostMomentumY() float64 { return s.f32(s.post() + ptMom + 4) }
func (s Step) PostMomentumZ() float64 { return s.f32(s.post() + ptMom + 8) }

// PreGlobal returns the global start position.
func (s Step) PreGlobal() [3]float64 {
	return [3]float64{s.PreGlobalX(), s.PreGlobalY(), s.PreGlobalZ()}
}

// PostGlobal returns the global end position.
func (s Step) PostGlobal() [3]float64 {
	return [3]float64{s.PostGlobalX(), s.PostGlobalY(), s.PostGlobalZ()}
}

func (s Step) PreTime() float64  { return s.f64(s.pre() + ptTime) }
func (s Step) PostTime() float64 { return s.f64(s.post() + ptTime) }

// The kinetic energy is stored with its sign bit flagging the volume edge.

func (s Step) PreEKin() float64  { return math.Abs(s.f64(s.pre() + ptEKin)) }
func (s Step) PostEKin() float64 { return math.Abs(s.f64(s.post() + ptEKin)) }

func (s Step) PreAtVolEdge() bool  { return math.Signbit(s.f64(s.pre() + ptEKin)) }
func (s Step) PostAtVolEdge() bool { return math.Signbit(s.f64(s.post() + ptEKin)) }

// PreProcessDefinedStep returns the process that limited the previous step.
func (s Step) PreProcessDefinedStep() string {
	return s.dr.procNames.StringOr(uint32At(s.raw(), s.pre()+ptProc), "")
}

// PostProcessDefinedStep returns the process that limited this step.
func (s Step) PostProcessDefinedStep() string {
	return s.dr.procNames.StringOr(uint32At(s.raw(), s.post()+ptProc), "")
}

func (s Step) other() int { return s.pre() + SizeStepPoint }

func (s Step) EDep() float64 { return s.f32(s.other()) }

func (s Step) EDepNonIon() float64 { return s.f32(s.other() + 4) }

// StepLength can exceed the distance between the end points.
func (s Step) StepLength() float64 { return s.f32(s.other() + 8) }

func (s Step) StepStatus() StepStatus {
	st := StepStatus(uint32At(s.raw(), s.other()+12))
	if st > StatusUndefined {
		return StatusUndefined
	}

	return st
}
