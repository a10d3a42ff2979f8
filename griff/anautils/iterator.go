package anautils

import "github.com/arloliu/griff/griff"

// TrackIterator yields the tracks of the current event passing all its
// filters.
type TrackIterator struct {
	dr      *griff.DataReader
	filters []TrackFilter
	next    int
}

// NewTrackIterator creates an iterator that resets at every new event of dr.
func NewTrackIterator(dr *griff.DataReader) *TrackIterator {
	it := &TrackIterator{dr: dr}
	dr.RegisterBeginEventCallback(griff.BeginEventFunc(func(*griff.DataReader) { it.Reset() }))

	return it
}

func (it *TrackIterator) AddFilter(f TrackFilter) *TrackIterator {
	it.filters = append(it.filters, f)
	return it
}

func (it *TrackIterator) Reset() { it.next = 0 }

// Next returns the next accepted track, or false when none is left.
func (it *TrackIterator) Next() (griff.Track, bool) {
	if !it.dr.EventActive() {
		return griff.Track{}, false
	}
	for it.next < it.dr.NTracks() {
		t := it.dr.Track(it.next)
		it.next++
		if accept(it.filters, t) {
			return t, true
		}
	}

	return griff.Track{}, false
}

// SegmentIterator yields the accepted segments of the accepted tracks.
type SegmentIterator struct {
	tracks  *TrackIterator
	filters []SegmentFilter
	cur     griff.Track
	next    int
}

func NewSegmentIterator(dr *griff.DataReader) *SegmentIterator {
	it := &SegmentIterator{tracks: &TrackIterator{dr: dr}}
	dr.RegisterBeginEventCallback(griff.BeginEventFunc(func(*griff.DataReader) { it.Reset() }))

	return it
}

func (it *SegmentIterator) AddTrackFilter(f TrackFilter) *SegmentIterator {
	it.tracks.AddFilter(f)
	return it
}

func (it *SegmentIterator) AddSegmentFilter(f SegmentFilter) *SegmentIterator {
	it.filters = append(it.filters, f)
	return it
}

func (it *SegmentIterator) Reset() {
	it.tracks.Reset()
	it.cur = griff.Track{}
	it.next = 0
}

func (it *SegmentIterator) Next() (griff.Segment, bool) {
	if !it.tracks.dr.EventActive() {
		return griff.Segment{}, false
	}
	for {
		if it.cur.Valid() {
			for it.next < it.cur.NSegments() {
				s := it.cur.Segment(it.next)
				it.next++
				if accept(it.filters, s) {
					return s, true
				}
			}
		}
		t, ok := it.tracks.Next()
		if !ok {
			it.cur = griff.Track{}
			return griff.Segment{}, false
		}
		it.cur, it.next = t, 0
	}
}

// StepIterator yields the accepted stored steps of the accepted segments.
// Events without stored steps yield nothing.
type StepIterator struct {
	segments *SegmentIterator
	filters  []StepFilter
	cur      griff.Segment
	next     int
}

func NewStepIterator(dr *griff.DataReader) *StepIterator {
	it := &StepIterator{segments: &SegmentIterator{tracks: &TrackIterator{dr: dr}}}
	dr.RegisterBeginEventCallback(griff.BeginEventFunc(func(*griff.DataReader) { it.Reset() }))

	return it
}

func (it *StepIterator) AddTrackFilter(f TrackFilter) *StepIterator {
	it.segments.AddTrackFilter(f)
	return it
}

func (it *StepIterator) AddSegmentFilter(f SegmentFilter) *StepIterator {
	it.segments.AddSegmentFilter(f)
	return it
}

func (it *StepIterator) AddStepFilter(f StepFilter) *StepIterator {
	it.filters = append(it.filters, f)
	return it
}

func (it *StepIterator) Reset() {
	it.segments.Reset()
	it.cur = griff.Segment{}
	it.next = 0
}

func (it *StepIterator) Next() (griff.Step, bool) {
	if !it.segments.tracks.dr.EventActive() {
		return griff.Step{}, false
	}
	for {
		if it.cur.Valid() {
			for it.next < it.cur.NStepsStored() {
				s := it.cur.Step(it.next)
				it.next++
				if accept(it.filters, s) {
					return s, true
				}
			}
		}
		s, ok := it.segments.Next()
		if !ok {
			it.cur = griff.Segment{}
			return griff.Step{}, false
		}
		it.cur, it.next = s, 0
	}
}
