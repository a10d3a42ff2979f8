package griff

import "fmt"

// Track is a particle track of the current event.
type Track struct {
	dr  *DataReader
	idx int
}

func (t Track) data() *trackData { return &t.dr.tracks[t.idx] }

// Valid reports whether t refers to a track.
func (t Track) Valid() bool { return t.dr != nil }

// Index returns the position of the track in the event.
func (t Track) Index() int { return t.idx }

func (t Track) ID() int32 { return t.data().id }

func (t Track) PDGCode() int32 { return t.data().pdgCode }

func (t Track) Weight() float32 { return t.data().weight }

func (t Track) ParentID() int32 { return t.data().parentID }

// IsPrimary reports whether the track has no parent.
func (t Track) IsPrimary() bool { return t.data().parentID == 0 }

// Parent returns the parent track, if present in the event.
func (t Track) Parent() (Track, bool) {
	if t.IsPrimary() {
		return Track{}, false
	}

	return t.dr.TrackByID(t.data().parentID)
}

func (t Track) NDaughters() int { return len(t.data().daughters) }

// DaughterID returns the id of daughter i.
func (t Track) DaughterID(i int) int32 { return t.data().daughters[i] }

// Daughter returns daughter i, if present in the event.
func (t Track) Daughter(i int) (Track, bool) {
	return t.dr.TrackByID(t.data().daughters[i])
}

func (t Track) NSegments() int { return t.data().nSeg }

// Segment returns segment i of the track.
func (t Track) Segment(i int) Segment {
	d := t.data()
	if i < 0 || i >= d.nSeg {
		panic(fmt.Sprintf("griff: segment index %d out of range [0,%d)", i, d.nSeg))
	}

	return Segment{dr: t.dr, idx: d.firstSeg + i}
}

func (t Track) FirstSegment() Segment { return t.Segment(0) }

func (t Track) LastSegment() Segment { return t.Segment(t.data().nSeg - 1) }

func (t Track) StartTime() float64 { return t.FirstSegment().StartTime() }

func (t Track) StartEKin() float64 { return t.FirstSegment().StartEKin() }

func (t Track) EndTime() float64 { return t.LastSegment().EndTime() }

// CreatorProcess returns the name of the process that created the track.
func (t Track) CreatorProcess() string {
	return t.dr.procNames.StringOr(t.data().creatorProc, "")
}

// ParticleDefinition returns the stored properties of the particle type.
func (t Track) ParticleDefinition() (ParticleDefinition, bool) {
	return t.dr.pdg.lookup(t.data().pdgCode)
}

func (t Track) def() ParticleDefinition {
	d, _ := t.ParticleDefinition()
	return d
}

func (t Track) PDGName() string {
	d, ok := t.ParticleDefinition()
	if !ok {
		return ""
	}

	return t.dr.pdgNames.StringOr(d.NameIdx, "")
}

func (t Track) PDGType() string {
	d, ok := t.ParticleDefinition()
	if !ok {
		return ""
	}

	return t.dr.pdgTypes.StringOr(d.TypeIdx, "")
}

func (t Track) PDGSubType() string {
	d, ok := t.ParticleDefinition()
	if !ok {
		return ""
	}

	return t.dr.pdgSubTypes.StringOr(d.SubTypeIdx, "")
}

func (t Track) Mass() float64 { return t.def().Mass }

func (t Track) Width() float64 { return t.def().Width }

func (t Track) Charge() float64 { return t.def().Charge }

func (t Track) LifeTime() float64 { return t.def().LifeTime }

func (t Track) AtomicNumber() int32 { return t.def().AtomicNumber }

func (t Track) AtomicMass() int32 { return t.def().AtomicMass }

func (t Track) MagneticMoment() float32 { return t.def().MagneticMoment }

func (t Track) SpinHalfs() int16 { return t.def().SpinHalfs }

func (t Track) Stable() bool { return t.def().Stable }

func (t Track) ShortLived() bool { return t.def().ShortLived }
