package griff

import "github.com/arloliu/griff/encoding"

// Ad hoc PDG codes of particles without an official code.
const (
	PDGCodeOpticalPhoton int32 = -22
	PDGCodeGeantino      int32 = 999
)

// ParticleDefinition is the stored form of a particle type. Names are
// indices into the PDG name, type and subtype string tables.
type ParticleDefinition struct {
	Mass           float64
	Width          float64
	Charge         float64
	LifeTime       float64
	NameIdx        uint32
	TypeIdx        uint32
	SubTypeIdx     uint32
	PDGCode        int32
	AtomicNumber   int32
	AtomicMass     int32
	MagneticMoment float32
	SpinHalfs      int16
	Stable         bool
	ShortLived     bool
}

// Encode writes the 64-byte on-disk form.
func (p *ParticleDefinition) Encode(w *encoding.Writer) {
	w.WriteFloat64(p.Mass)
	w.WriteFloat64(p.Width)
	w.WriteFloat64(p.Charge)
	w.WriteFloat64(p.LifeTime)
	w.WriteUint32(p.NameIdx)
	w.WriteUint32(p.TypeIdx)
	w.WriteUint32(p.SubTypeIdx)
	w.WriteInt32(p.PDGCode)
	w.WriteInt32(p.AtomicNumber)
	w.WriteInt32(p.AtomicMass)
	w.WriteFloat32(p.MagneticMoment)
	w.WriteInt16(p.SpinHalfs)
	w.WriteBool(p.Stable)
	w.WriteBool(p.ShortLived)
}

func decodeParticleDefinition(r *encoding.Reader) ParticleDefinition {
	return ParticleDefinition{
		Mass:           r.ReadFloat64(),
		Width:          r.ReadFloat64(),
		Charge:         r.ReadFloat64(),
		LifeTime:       r.ReadFloat64(),
		NameIdx:        r.ReadUint32(),
		TypeIdx:        r.ReadUint32(),
		SubTypeIdx:     r.ReadUint32(),
		PDGCode:        r.ReadInt32(),
		AtomicNumber:   r.ReadInt32(),
		AtomicMass:     r.ReadInt32(),
		MagneticMoment: r.ReadFloat32(),
		SpinHalfs:      r.ReadInt16(),
		Stable:         r.ReadBool(),
		ShortLived:     r.ReadBool(),
	}
}

// Particle describes a particle type by name, as passed to Writer.
type Particle struct {
	PDGCode        int32
	Name           string
	Type           string
	SubType        string
	Mass           float64
	Width          float64
	Charge         float64
	LifeTime       float64
	AtomicNumber   int32
	AtomicMass     int32
	MagneticMoment float32
	SpinHalfs      int16
	Stable         bool
	ShortLived     bool
}

// Spin returns the spin in units of hbar.
func (p *ParticleDefinition) Spin() float64 { return 0.5 * float64(p.SpinHalfs) }
