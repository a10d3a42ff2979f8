package griff

import "fmt"

// Touchable is a placed volume path, innermost volume first.
type Touchable struct {
	dr    *DataReader
	index uint32
	entry TouchableEntry
}

func (dr *DataReader) touchable(idx uint32) Touchable {
	e, _ := dr.touchables.Entry(idx)
	return Touchable{dr: dr, index: idx, entry: e}
}

// Index returns the touchable table index.
func (t Touchable) Index() uint32 { return t.index }

// Depth returns the number of stored volume generations.
func (t Touchable) Depth() int { return len(t.entry.Levels) }

func (t Touchable) level(d int) *VolumeLevel {
	if d < 0 || d >= len(t.entry.Levels) {
		panic(fmt.Sprintf("griff: volume depth %d out of range [0,%d)", d, len(t.entry.Levels)))
	}

	return &t.entry.Levels[d]
}

func (t Touchable) VolumeName(d int) string {
	return t.dr.volNames.StringOr(t.level(d).VolumeNameIdx, "")
}

func (t Touchable) PhysicalVolumeName(d int) string {
	return t.dr.volNames.StringOr(t.level(d).PhysVolumeNameIdx, "")
}

func (t Touchable) CopyNumber(d int) int32 { return t.level(d).CopyNumber }

// Material returns the material of the volume at depth d.
func (t Touchable) Material(d int) Material {
	return t.dr.material(t.level(d).MaterialIdx)
}

// Material is a stored material.
type Material struct {
	dr    *DataReader
	entry MaterialEntry
}

func (dr *DataReader) material(idx uint32) Material {
	e, _ := dr.materials.Entry(idx)
	return Material{dr: dr, entry: e}
}

func (m Material) Name() string { return m.dr.materialNames.StringOr(m.entry.NameIdx, "") }

func (m Material) Density() float64 { return m.entry.Density }

func (m Material) Temperature() float64 { return m.entry.Temperature }

func (m Material) Pressure() float64 { return m.entry.Pressure }

func (m Material) RadiationLength() float64 { return m.entry.RadiationLength }

func (m Material) NuclearInteractionLength() float64 { return m.entry.NuclearInteractionLength }

// HasMeanExcitationEnergy reports whether the energy is known.
func (m Material) HasMeanExcitationEnergy() bool { return m.entry.MeanExcitationEnergy >= 0 }

func (m Material) MeanExcitationEnergy() float64 { return m.entry.MeanExcitationEnergy }

func (m Material) State() MaterialState { return m.entry.State }

func (m Material) NElements() int { return len(m.entry.Elements) }

// Element returns component i of the material.
func (m Material) Element(i int) Element {
	return m.dr.element(m.entry.Elements[i].ElementIdx)
}

// ElementFraction returns the mass fraction of component i.
func (m Material) ElementFraction(i int) float64 { return m.entry.Elements[i].Fraction }

// Element is a stored chemical element.
type Element struct {
	dr    *DataReader
	entry ElementEntry
}

func (dr *DataReader) element(idx uint32) Element {
	e, _ := dr.elements.Entry(idx)
	return Element{dr: dr, entry: e}
}

func (e Element) Name() string { return e.dr.elementNames.StringOr(e.entry.NameIdx, "") }

func (e Element) Symbol() string { return e.dr.elementNames.StringOr(e.entry.SymbolIdx, "") }

func (e Element) Z() float64 { return e.entry.Z }

func (e Element) N() float64 { return e.entry.N }

func (e Element) A() float64 { return e.entry.A }

func (e Element) NaturalAbundances() bool { return e.entry.NaturalAbundances }

func (e Element) NIsotopes() int { return len(e.entry.Isotopes) }

func (e Element) Isotope(i int) Isotope {
	return e.dr.isotope(e.entry.Isotopes[i].IsotopeIdx)
}

func (e Element) IsotopeRelativeAbundance(i int) float64 {
	return e.entry.Isotopes[i].RelativeAbundance
}

// Isotope is a stored isotope.
type Isotope struct {
	dr    *DataReader
	entry IsotopeEntry
}

func (dr *DataReader) isotope(idx uint32) Isotope {
	e, _ := dr.isotopes.Entry(idx)
	return Isotope{dr: dr, entry: e}
}

func (i Isotope) Name() string { return i.dr.isotopeNames.StringOr(i.entry.NameIdx, "") }

func (i Isotope) Z() int32 { return i.entry.Z }

func (i Isotope) N() int32 { return i.entry.N }

func (i Isotope) A() float64 { return i.entry.A }

func (i Isotope) M() int32 { return i.entry.M }
