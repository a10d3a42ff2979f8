package griff

import (
	"fmt"
	"slices"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/evtfile"
)

const entryVersion = 0

// VolumeLevel is one generation of a volume path, innermost first.
type VolumeLevel struct {
	CopyNumber        int32
	VolumeNameIdx     uint32
	PhysVolumeNameIdx uint32
	MaterialIdx       uint32
}

// TouchableEntry is a stored volume path.
type TouchableEntry struct {
	Levels []VolumeLevel
}

var _ evtfile.Entry[TouchableEntry] = TouchableEntry{}

func (e TouchableEntry) Hash() uint64 { return evtfile.EncodedHash(e) }

func (e TouchableEntry) Equal(o TouchableEntry) bool { return slices.Equal(e.Levels, o.Levels) }

func (e TouchableEntry) Encode(w *encoding.Writer) {
	w.WriteUint8(uint8(len(e.Levels))) //nolint:gosec
	for _, l := range e.Levels {
		w.WriteInt32(l.CopyNumber)
		w.WriteUint32(l.VolumeNameIdx)
		w.WriteUint32(l.PhysVolumeNameIdx)
		w.WriteUint32(l.MaterialIdx)
	}
}

func decodeTouchable(r *encoding.Reader) (TouchableEntry, error) {
	n := int(r.ReadUint8())
	if n == 0 && r.Err() == nil {
		return TouchableEntry{}, fmt.Errorf("%w: touchable without volumes", errs.ErrInvalidRecord)
	}
	e := TouchableEntry{Levels: make([]VolumeLevel, 0, n)}
	for i := 0; i < n && r.Err() == nil; i++ {
		e.Levels = append(e.Levels, VolumeLevel{
			CopyNumber:        r.ReadInt32(),
			VolumeNameIdx:     r.ReadUint32(),
			PhysVolumeNameIdx: r.ReadUint32(),
			MaterialIdx:       r.ReadUint32(),
		})
	}

	return e, r.Err()
}

// MaterialState is the state of matter of a material.
type MaterialState int32

const (
	StateUndefined MaterialState = iota
	StateSolid
	StateLiquid
	StateGas
)

func (s MaterialState) String() string {
	switch s {
	case StateUndefined:
		return "Undefined"
	case StateSolid:
		return "Solid"
	case StateLiquid:
		return "Liquid"
	case StateGas:
		return "Gas"
	default:
		return fmt.Sprintf("MaterialState(%d)", int32(s))
	}
}

// ElementFraction is the mass fraction of an element in a material.
type ElementFraction struct {
	Fraction   float64
	ElementIdx uint32
}

// MaterialEntry is a stored material.
type MaterialEntry struct {
	NameIdx                  uint32
	Density                  float64
	Temperature              float64
	Pressure                 float64
	RadiationLength          float64
	NuclearInteractionLength float64
	// MeanExcitationEnergy is negative when unknown.
	MeanExcitationEnergy float64
	State                MaterialState
	Elements             []ElementFraction
}

var _ evtfile.Entry[MaterialEntry] = MaterialEntry{}

func (e MaterialEntry) Hash() uint64 { return evtfile.EncodedHash(e) }

func (e MaterialEntry) Equal(o MaterialEntry) bool {
	return e.NameIdx == o.NameIdx &&
		e.Density == o.Density &&
		e.Temperature == o.Temperature &&
		e.Pressure == o.Pressure &&
		e.RadiationLength == o.RadiationLength &&
		e.NuclearInteractionLength == o.NuclearInteractionLength &&
		e.MeanExcitationEnergy == o.MeanExcitationEnergy &&
		e.State == o.State &&
		slices.Equal(e.Elements, o.Elements)
}

func (e MaterialEntry) Encode(w *encoding.Writer) {
	w.WriteInt32(entryVersion)
	w.WriteUint32(e.NameIdx)
	w.WriteFloat64(e.Density)
	w.WriteFloat64(e.Temperature)
	w.WriteFloat64(e.Pressure)
	w.WriteFloat64(e.RadiationLength)
	w.WriteFloat64(e.NuclearInteractionLength)
	w.WriteFloat64(e.MeanExcitationEnergy)
	w.WriteInt32(int32(e.State))
	w.WriteUint32(uint32(len(e.Elements))) //nolint:gosec
	for _, el := range e.Elements {
		w.WriteFloat64(el.Fraction)
		w.WriteUint32(el.ElementIdx)
	}
}

func readEntryVersion(r *encoding.Reader, what string) error {
	if v := r.ReadInt32(); v != entryVersion && r.Err() == nil {
		return fmt.Errorf("%w: %s version %d", errs.ErrUnsupportedTable, what, v)
	}

	return r.Err()
}

func decodeMaterial(r *encoding.Reader) (MaterialEntry, error) {
	if err := readEntryVersion(r, "material"); err != nil {
		return MaterialEntry{}, err
	}
	e := MaterialEntry{
		NameIdx:                  r.ReadUint32(),
		Density:                  r.ReadFloat64(),
		Temperature:              r.ReadFloat64(),
		Pressure:                 r.ReadFloat64(),
		RadiationLength:          r.ReadFloat64(),
		NuclearInteractionLength: r.ReadFloat64(),
		MeanExcitationEnergy:     r.ReadFloat64(),
		State:                    MaterialState(r.ReadInt32()),
	}
	if e.State < StateUndefined || e.State > StateGas {
		return e, fmt.Errorf("%w: material state %d", errs.ErrInvalidRecord, e.State)
	}
	n := r.ReadUint32()
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		e.Elements = append(e.Elements, ElementFraction{Fraction: r.ReadFloat64(), ElementIdx: r.ReadUint32()})
	}

	return e, r.Err()
}

// IsotopeAbundance is the relative abundance of an isotope in an element.
type IsotopeAbundance struct {
	RelativeAbundance float64
	IsotopeIdx        uint32
}

// ElementEntry is a stored element. Name and symbol index the element name
// table.
type ElementEntry struct {
	NameIdx           uint32
	SymbolIdx         uint32
	Z                 float64
	N                 float64
	A                 float64
	NaturalAbundances bool
	Isotopes          []IsotopeAbundance
}

var _ evtfile.Entry[ElementEntry] = ElementEntry{}

func (e ElementEntry) Hash() uint64 { return evtfile.EncodedHash(e) }

func (e ElementEntry) Equal(o ElementEntry) bool {
	return e.NameIdx == o.NameIdx &&
		e.SymbolIdx == o.SymbolIdx &&
		e.Z == o.Z && e.N == o.N && e.A == o.A &&
		e.NaturalAbundances == o.NaturalAbundances &&
		slices.Equal(e.Isotopes, o.Isotopes)
}

func (e ElementEntry) Encode(w *encoding.Writer) {
	w.WriteInt32(entryVersion)
	w.WriteUint32(e.NameIdx)
	w.WriteUint32(e.SymbolIdx)
	w.WriteFloat64(e.Z)
	w.WriteFloat64(e.N)
	w.WriteFloat64(e.A)
	var na uint32
	if e.NaturalAbundances {
		na = 1
	}
	w.WriteUint32(na)
	w.WriteUint32(uint32(len(e.Isotopes))) //nolint:gosec
	for _, iso := range e.Isotopes {
		w.WriteFloat64(iso.RelativeAbundance)
		w.WriteUint32(iso.IsotopeIdx)
	}
}

func decodeElement(r *encoding.Reader) (ElementEntry, error) {
	if err := readEntryVersion(r, "element"); err != nil {
		return ElementEntry{}, err
	}
	e := ElementEntry{
		NameIdx:   r.ReadUint32(),
		SymbolIdx: r.ReadUint32(),
		Z:         r.ReadFloat64(),
		N:         r.ReadFloat64(),
		A:         r.ReadFloat64(),
	}
	switch na := r.ReadUint32(); na {
	case 0:
	case 1:
		e.NaturalAbundances = true
	default:
		return e, fmt.Errorf("%w: natural abundance flag %d", errs.ErrInvalidRecord, na)
	}
	n := r.ReadUint32()
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		e.Isotopes = append(e.Isotopes, IsotopeAbundance{RelativeAbundance: r.ReadFloat64(), IsotopeIdx: r.ReadUint32()})
	}

	return e, r.Err()
}

// IsotopeEntry is a stored isotope.
type IsotopeEntry struct {
	NameIdx uint32
	Z       int32
	N       int32
	A       float64
	// M is the isomer level.
	M int32
}

var _ evtfile.Entry[IsotopeEntry] = IsotopeEntry{}

func (e IsotopeEntry) Hash() uint64 { return evtfile.EncodedHash(e) }

func (e IsotopeEntry) Equal(o IsotopeEntry) bool { return e == o }

func (e IsotopeEntry) Encode(w *encoding.Writer) {
	w.WriteInt32(entryVersion)
	w.WriteUint32(e.NameIdx)
	w.WriteInt32(e.Z)
	w.WriteInt32(e.N)
	w.WriteFloat64(e.A)
	w.WriteInt32(e.M)
}

func decodeIsotope(r *encoding.Reader) (IsotopeEntry, error) {
	if err := readEntryVersion(r, "isotope"); err != nil {
		return IsotopeEntry{}, err
	}
	e := IsotopeEntry{
		NameIdx: r.ReadUint32(),
		Z:       r.ReadInt32(),
		N:       r.ReadInt32(),
		A:       r.ReadFloat64(),
		M:       r.ReadInt32(),
	}

	return e, r.Err()
}

// MetaDataPair is a key/value pair of indices into the metadata string table.
type MetaDataPair struct {
	KeyIdx   uint32
	ValueIdx uint32
}

// MetaDataEntry is a stored metadata map, with pairs sorted by key.
type MetaDataEntry struct {
	Pairs []MetaDataPair
}

var _ evtfile.Entry[MetaDataEntry] = MetaDataEntry{}

func (e MetaDataEntry) Hash() uint64 { return evtfile.EncodedHash(e) }

func (e MetaDataEntry) Equal(o MetaDataEntry) bool { return slices.Equal(e.Pairs, o.Pairs) }

func (e MetaDataEntry) Encode(w *encoding.Writer) {
	w.WriteInt32(entryVersion)
	w.WriteUint32(uint32(len(e.Pairs))) //nolint:gosec
	for _, p := range e.Pairs {
		w.WriteUint32(p.KeyIdx)
		w.WriteUint32(p.ValueIdx)
	}
}

func decodeMetaData(r *encoding.Reader) (MetaDataEntry, error) {
	if err := readEntryVersion(r, "metadata"); err != nil {
		return MetaDataEntry{}, err
	}
	n := r.ReadUint32()
	var e MetaDataEntry
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		e.Pairs = append(e.Pairs, MetaDataPair{KeyIdx: r.ReadUint32(), ValueIdx: r.ReadUint32()})
	}

	return e, r.Err()
}
