package griff

// Producer-side records passed to Writer. They carry names and values;
// the writer interns them into the DB tables.

// StepStatus tells what limited a step.
type StepStatus uint32

const (
	StatusWorldBoundary StepStatus = iota
	StatusGeomBoundary
	StatusAtRestDoItProc
	StatusAlongStepDoItProc
	StatusPostStepDoItProc
	StatusUserDefinedLimit
	StatusExclusivelyForcedProc
	StatusUndefined
)

var stepStatusNames = [...]string{
	"WorldBoundary",
	"GeomBoundary",
	"AtRestDoItProc",
	"AlongStepDoItProc",
	"PostStepDoItProc",
	"UserDefinedLimit",
	"ExclusivelyForcedProc",
	"Undefined",
}

func (s StepStatus) String() string {
	if int(s) < len(stepStatusNames) {
		return stepStatusNames[s]
	}

	return stepStatusNames[StatusUndefined]
}

// StepPoint is the state of a particle at one end of a step.
type StepPoint struct {
	GlobalPos    [3]float64
	Time         float64
	EKin         float64
	AtVolumeEdge bool
	LocalPos     [3]float32
	Momentum     [3]float32
	// Process is the name of the process that defined the step ending here.
	Process string
}

// StepRecord is one simulation step.
type StepRecord struct {
	Pre, Post  StepPoint
	EDep       float64
	EDepNonIon float64
	StepLength float64
	Status     StepStatus
}

// IsotopeRecord describes an isotope.
type IsotopeRecord struct {
	Name string
	Z, N int32
	A    float64
	M    int32
}

// IsotopeComponent is an isotope with its abundance in an element.
type IsotopeComponent struct {
	RelativeAbundance float64
	Isotope           IsotopeRecord
}

// ElementRecord describes an element.
type ElementRecord struct {
	Name              string
	Symbol            string
	Z, N, A           float64
	NaturalAbundances bool
	Isotopes          []IsotopeComponent
}

// ElementComponent is an element with its mass fraction in a material.
type ElementComponent struct {
	Fraction float64
	Element  ElementRecord
}

// MaterialRecord describes a material.
type MaterialRecord struct {
	Name                     string
	Density                  float64
	Temperature              float64
	Pressure                 float64
	RadiationLength          float64
	NuclearInteractionLength float64
	// MeanExcitationEnergy is negative when unknown.
	MeanExcitationEnergy float64
	State                MaterialState
	Elements             []ElementComponent
}

// VolumeRecord is one level of the volume path of a segment.
type VolumeRecord struct {
	Name         string
	PhysicalName string
	CopyNumber   int32
	Material     *MaterialRecord
}

// SegmentRecord is a run of steps of one track inside one volume.
//
// Start and end time, energy, the volume edge flags and the energy deposits
// of the segment derive from its steps.
type SegmentRecord struct {
	// Volumes is the volume path, innermost first.
	Volumes []VolumeRecord
	// NextFiltered marks a gap after this segment on its track. It is
	// ignored on the last segment of a track.
	NextFiltered bool
	Steps        []StepRecord
}

// TrackRecord is one particle track of an event.
type TrackRecord struct {
	ID             int32
	PDGCode        int32
	Weight         float32
	CreatorProcess string
	// ParentID is zero for primary tracks.
	ParentID int32
	// Daughters lists daughter track ids in addition to those whose
	// ParentID points at this track.
	Daughters []int32
	Segments  []SegmentRecord
}
