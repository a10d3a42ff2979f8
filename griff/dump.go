package griff

import (
	"fmt"
	"io"
	"strings"
)

// Conversion factors from the stored units (MeV, ns, mm).
const (
	unitKeV = 1e-3
	unitMs  = 1e6
	unitMm  = 1.0
)

// Dump verbosity levels of DumpEvent.
const (
	DumpEventOnly = iota
	DumpTracks
	DumpSegments
	DumpSteps
)

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

// DumpTrack prints a one-line summary of t, optionally with the particle
// properties.
func DumpTrack(w io.Writer, t Track, pdgInfo bool) {
	var b strings.Builder
	b.WriteString("[track(units:ms,keV):")
	fmt.Fprintf(&b, " id=%d parent=%d", t.ID(), t.ParentID())
	for i := 0; i < t.NDaughters(); i++ {
		fmt.Fprintf(&b, " daug%d=%d", i, t.DaughterID(i))
	}
	fmt.Fprintf(&b, " nsegm=%d w=%f primary=%d secondary=%d", t.NSegments(), t.Weight(),
		boolInt(t.IsPrimary()), boolInt(!t.IsPrimary()))
	fmt.Fprintf(&b, " t0[ms]=%f ekin0[keV]=%f pdg=%d proc=%s",
		t.StartTime()/unitMs, t.StartEKin()/unitKeV, t.PDGCode(), t.CreatorProcess())
	if pdgInfo {
		fmt.Fprintf(&b, " name=%s type=%s subtype=%s", t.PDGName(), t.PDGType(), t.PDGSubType())
		fmt.Fprintf(&b, " mass=%f width=%f charge=%f lifeTime=%f",
			t.Mass()/unitKeV, t.Width()/unitKeV, t.Charge(), t.LifeTime()/unitMs)
		fmt.Fprintf(&b, " atomicNumber=%d atomicMass=%d magneticMoment=%f",
			t.AtomicNumber(), t.AtomicMass(), t.MagneticMoment())
		d := t.def()
		fmt.Fprintf(&b, " spin=%f stable=%d shortLived=%d", d.Spin(), boolInt(d.Stable), boolInt(d.ShortLived))
	}
	b.WriteString("]")
	fmt.Fprintln(w, b.String())
}

// DumpSegment prints a one-line summary of s.
func DumpSegment(w io.Writer, s Segment) {
	var b strings.Builder
	b.WriteString("[segment(units:ms,keV):")
	fmt.Fprintf(&b, " t0=%f t1=%f ekin0=%f ekin1=%f", s.StartTime()/unitMs, s.EndTime()/unitMs,
		s.StartEKin()/unitKeV, s.EndEKin()/unitKeV)
	fmt.Fprintf(&b, " edep=%f edepnonion=%f", float64(s.EDep())/unitKeV, float64(s.EDepNonIon())/unitKeV)
	fmt.Fprintf(&b, " edge0=%d edge1=%d", boolInt(s.StartAtVolumeBoundary()), boolInt(s.EndAtVolumeBoundary()))
	tch := s.Touchable()
	for d := 0; d < tch.Depth(); d++ {
		fmt.Fprintf(&b, " v%d=%s#%s#%s#%d", d, tch.VolumeName(d), tch.PhysicalVolumeName(d),
			tch.Material(d).Name(), tch.CopyNumber(d))
	}
	b.WriteString("]")
	fmt.Fprintln(w, b.String())
}

// DumpStep prints a one-line summary of s.
func DumpStep(w io.Writer, s Step) {
	var b strings.Builder
	b.WriteString("[step(units:ms,mm,keV):")
	fmt.Fprintf(&b, " edep=%f edepnonion=%f stepLength=%f stepStatus=%s",
		s.EDep()/unitKeV, s.EDepNonIon()/unitKeV, s.StepLength()/unitMm, s.StepStatus())
	fmt.Fprintf(&b, " t0=%f t1=%f ekin0=%f ekin1=%f", s.PreTime()/unitMs, s.PostTime()/unitMs,
		s.PreEKin()/unitKeV, s.PostEKin()/unitKeV)
	fmt.Fprintf(&b, " x0=%f y0=%f z0=%f x1=%f y1=%f z1=%f",
		s.PreGlobalX()/unitMm, s.PreGlobalY()/unitMm, s.PreGlobalZ()/unitMm,
		s.PostGlobalX()/unitMm, s.PostGlobalY()/unitMm, s.PostGlobalZ()/unitMm)
	fmt.Fprintf(&b, " lx0=%f ly0=%f lz0=%f lx1=%f ly1=%f lz1=%f",
		s.PreLocalX()/unitMm, s.PreLocalY()/unitMm, s.PreLocalZ()/unitMm,
		s.PostLocalX()/unitMm, s.PostLocalY()/unitMm, s.PostLocalZ()/unitMm)
	fmt.Fprintf(&b, " edge0=%d edge1=%d", boolInt(s.PreAtVolEdge()), boolInt(s.PostAtVolEdge()))
	fmt.Fprintf(&b, " px0=%f py0=%f pz0=%f px1=%f py1=%f pz1=%f",
		s.PreMomentumX()/unitKeV, s.PreMomentumY()/unitKeV, s.PreMomentumZ()/unitKeV,
		s.PostMomentumX()/unitKeV, s.PostMomentumY()/unitKeV, s.PostMomentumZ()/unitKeV)
	fmt.Fprintf(&b, " proc0=%s proc1=%s]", s.PreProcessDefinedStep(), s.PostProcessDefinedStep())
	fmt.Fprintln(w, b.String())
}

// DumpMaterial prints a one-line summary of m.
func DumpMaterial(w io.Writer, m Material) {
	var b strings.Builder
	fmt.Fprintf(&b, "[material: name=%s density=%g temp=%g pressure=%g radlen=%g nuclintlen=%g",
		m.Name(), m.Density(), m.Temperature(), m.Pressure(), m.RadiationLength(), m.NuclearInteractionLength())
	imean := -1.0
	if m.HasMeanExcitationEnergy() {
		imean = m.MeanExcitationEnergy()
	}
	fmt.Fprintf(&b, " Imean=%g state=%s", imean, m.State())
	for i := 0; i < m.NElements(); i++ {
		fmt.Fprintf(&b, " elem%d[%f%%]=%s", i, 100*m.ElementFraction(i), m.Element(i).Name())
	}
	b.WriteString("]")
	fmt.Fprintln(w, b.String())
}

// DumpEvent prints the current event of dr. Verbosity selects how deep the
// listing goes, from DumpEventOnly to DumpSteps.
func DumpEvent(w io.Writer, dr *DataReader, verbosity int) {
	if !dr.EventActive() {
		fmt.Fprintln(w, "No active event")
		return
	}
	fmt.Fprintf(w, "Event run=%d evt=%d seed=%d mode=%s ntracks=%d nprimaries=%d\n",
		dr.RunNumber(), dr.EventNumber(), dr.Seed(), dr.Mode(), dr.NTracks(), dr.NPrimaryTracks())
	if verbosity < DumpTracks {
		return
	}
	for i := 0; i < dr.NTracks(); i++ {
		t := dr.Track(i)
		DumpTrack(w, t, false)
		if verbosity < DumpSegments {
			continue
		}
		for j := 0; j < t.NSegments(); j++ {
			s := t.Segment(j)
			fmt.Fprint(w, "  ")
			DumpSegment(w, s)
			if verbosity < DumpSteps {
				continue
			}
			for k := 0; k < s.NStepsStored(); k++ {
				fmt.Fprint(w, "    ")
				DumpStep(w, s.Step(k))
			}
		}
	}
}
