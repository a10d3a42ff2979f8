package griff

import "fmt"

// Segment is the part of a track inside one volume.
type Segment struct {
	dr  *DataReader
	idx int
}

func (s Segment) data() *segmentData { return &s.dr.segments[s.idx] }

// Valid reports whether s refers to a segment.
func (s Segment) Valid() bool { return s.dr != nil }

func (s Segment) Track() Track { return Track{dr: s.dr, idx: s.data().track} }

// IndexOnTrack returns the position of the segment on its track.
func (s Segment) IndexOnTrack() int {
	return s.idx - s.dr.tracks[s.data().track].firstSeg
}

// Next returns the following segment on the track.
func (s Segment) Next() (Segment, bool) {
	t := &s.dr.tracks[s.data().track]
	if s.idx+1 >= t.firstSeg+t.nSeg {
		return Segment{}, false
	}

	return Segment{dr: s.dr, idx: s.idx + 1}, true
}

// Previous returns the preceding segment on the track.
func (s Segment) Previous() (Segment, bool) {
	if s.idx == s.dr.tracks[s.data().track].firstSeg {
		return Segment{}, false
	}

	return Segment{dr: s.dr, idx: s.idx - 1}, true
}

func (s Segment) StartTime() float64 { return s.data().startTime }

func (s Segment) EndTime() float64 { return s.data().endTime }

func (s Segment) StartEKin() float64 { return s.data().startEKin }

func (s Segment) EndEKin() float64 { return s.data().endEKin }

func (s Segment) EDep() float32 { return s.data().eDep }

func (s Segment) EDepNonIon() float32 { return s.data().eDepNonIon }

func (s Segment) StartAtVolumeBoundary() bool { return s.data().volinfo&volInfoStartAtEdge != 0 }

func (s Segment) EndAtVolumeBoundary() bool { return s.data().volinfo&volInfoEndAtEdge != 0 }

// NextWasFiltered reports whether the step after this segment was dropped
// by a step filter.
func (s Segment) NextWasFiltered() bool { return s.data().volinfo&volInfoNextFiltered != 0 }

// NStepsOriginal returns the number of simulated steps in the segment.
func (s Segment) NStepsOriginal() int {
	d := s.data()
	if d.stepIdx < 0 {
		return int(-d.stepIdx)
	}
	full, err := s.dr.fullData()
	if err != nil || int(d.stepIdx)+SizeStepHeader > len(full) {
		return 0
	}

	return int(uint32At(full, int(d.stepIdx)))
}

// NStepsStored returns the number of steps available: all of them in FULL
// mode, one merged step in REDUCED mode and none in MINIMAL mode.
func (s Segment) NStepsStored() int { return len(s.dr.setupSteps(s.idx)) }

// HasStepInfo reports whether steps are stored.
func (s Segment) HasStepInfo() bool { return s.NStepsStored() > 0 }

// Step returns stored step i.
func (s Segment) Step(i int) Step {
	steps := s.dr.setupSteps(s.idx)
	if i < 0 || i >= len(steps) {
		panic(fmt.Sprintf("griff: step index %d out of range [0,%d)", i, len(steps)))
	}

	return Step{dr: s.dr, seg: s.idx, idx: i}
}

func (s Segment) FirstStep() Step { return s.Step(0) }

func (s Segment) LastStep() Step { return s.Step(s.NStepsStored() - 1) }

// SegmentLength sums the lengths of the stored steps.
func (s Segment) SegmentLength() float64 {
	var l float64
	for i, n := 0, s.NStepsStored(); i < n; i++ {
		l += s.Step(i).StepLength()
	}

	return l
}

func (s Segment) touchableIndex() uint32 { return s.data().volinfo & volumeIndexMask }

// Touchable returns the volume path of the segment.
func (s Segment) Touchable() Touchable {
	return s.dr.touchable(s.touchableIndex())
}

// VolumeDepthStored returns how many volume generations can be queried.
func (s Segment) VolumeDepthStored() int { return s.Touchable().Depth() }

// VolumeName returns the logical volume name at depth d, where 0 is the
// segment's own volume and 1 its mother.
func (s Segment) VolumeName(d int) string { return s.Touchable().VolumeName(d) }

func (s Segment) PhysicalVolumeName(d int) string { return s.Touchable().PhysicalVolumeName(d) }

func (s Segment) VolumeCopyNumber(d int) int32 { return s.Touchable().CopyNumber(d) }

func (s Segment) Material(d int) Material { return s.Touchable().Material(d) }

// IsInWorldVolume reports whether the segment is in the top volume.
func (s Segment) IsInWorldVolume() bool { return s.VolumeDepthStored() == 1 }

// InSameVolume reports whether both segments are in the same placed volume.
func (s Segment) InSameVolume(o Segment) bool { return s.touchableIndex() == o.touchableIndex() }
