package griff

import (
	"fmt"

	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/evtfile"
	"github.com/arloliu/griff/format"
)

const (
	// MagicWord identifies Griff files.
	MagicWord uint32 = 0xe5506ea4
	// FileExtension is appended to Griff file names.
	FileExtension = ".griff"
)

// DB subsection ids.
const (
	SubSectTouchables      uint16 = 100
	SubSectVolNames        uint16 = 110
	SubSectMaterials       uint16 = 120
	SubSectElements        uint16 = 130
	SubSectIsotopes        uint16 = 140
	SubSectMaterialNames   uint16 = 150
	SubSectElementNames    uint16 = 160
	SubSectIsotopeNames    uint16 = 170
	SubSectProcNames       uint16 = 200
	SubSectPDGCodes        uint16 = 300
	SubSectPDGNames        uint16 = 310
	SubSectPDGTypes        uint16 = 320
	SubSectPDGSubTypes     uint16 = 330
	SubSectMetaData        uint16 = 400
	SubSectMetaDataStrings uint16 = 410
)

// Record sizes in bytes.
const (
	SizeTrackHeader         = 20 // u64 seed, u32 metaDataIdx, u32 nTracks, u32 mode
	SizePerTrack            = 28 // without the daughter list
	SizePerDaughter         = 4
	SizePerSegment          = 32
	SizeSegmentEndExtra     = 16 // f64 endTime, f64 endEKin
	SizeStepHeader          = 8  // u32 nStepsOrig, u32 nStepsStored
	SizeStepPoint           = 68
	SizeStepOther           = 16
	SizeStep                = SizeStepPoint + SizeStepOther
	SizeParticleDefinition  = 64
	volumeIndexMask         = 0x1FFFFFFF
	volInfoNextFiltered     = 0x20000000
	volInfoStartAtEdge      = 0x40000000
	volInfoEndAtEdge        = 0x80000000
	maxTouchableIndex       = volumeIndexMask
	defaultStepSlabBlockLen = 10
)

// Mode is the storage mode of an event.
type Mode uint32

const (
	// ModeFull stores every step.
	ModeFull Mode = 0
	// ModeReduced stores one merged step per segment.
	ModeReduced Mode = 1
	// ModeMinimal stores no steps.
	ModeMinimal Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "FULL"
	case ModeReduced:
		return "REDUCED"
	case ModeMinimal:
		return "MINIMAL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeFull || m == ModeReduced || m == ModeMinimal
}

// ParseMode converts a mode name such as "REDUCED" to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeFull, ModeReduced, ModeMinimal} {
		if m.String() == s {
			return m, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrInvalidMode, s)
}

// griffFormat is the evtfile.Format of Griff files.
type griffFormat struct{}

// Format is the evtfile format descriptor of Griff files.
var Format evtfile.Format = griffFormat{}

func (griffFormat) MagicWord() uint32     { return MagicWord }
func (griffFormat) FileExtension() string { return FileExtension }
func (griffFormat) BriefDataName() string { return "track" }
func (griffFormat) FullDataName() string  { return "step" }

func (griffFormat) FullDataCompression() format.CompressionType {
	return format.CompressionZlib
}
