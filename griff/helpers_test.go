package griff

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func hydrogen() ElementRecord {
	return ElementRecord{
		Name: "Hydrogen", Symbol: "H", Z: 1, N: 1.0079, A: 1.00794,
		NaturalAbundances: true,
		Isotopes: []IsotopeComponent{
			{RelativeAbundance: 0.75, Isotope: IsotopeRecord{Name: "H1", Z: 1, N: 1, A: 1.0078}},
			{RelativeAbundance: 0.25, Isotope: IsotopeRecord{Name: "H2", Z: 1, N: 2, A: 2.0141}},
		},
	}
}

func oxygen() ElementRecord {
	return ElementRecord{
		Name: "Oxygen", Symbol: "O", Z: 8, N: 16, A: 15.999,
		Isotopes: []IsotopeComponent{
			{RelativeAbundance: 1, Isotope: IsotopeRecord{Name: "O16", Z: 8, N: 16, A: 15.995}},
		},
	}
}

func water() *MaterialRecord {
	return &MaterialRecord{
		Name: "G4_WATER", Density: 1, Temperature: 293.15, Pressure: 1,
		RadiationLength: 360.8, NuclearInteractionLength: 754.1,
		MeanExcitationEnergy: 78e-6, State: StateLiquid,
		Elements: []ElementComponent{
			{Fraction: 0.125, Element: hydrogen()},
			{Fraction: 0.875, Element: oxygen()},
		},
	}
}

func vacuum() *MaterialRecord {
	return &MaterialRecord{Name: "Vacuum", Density: 1e-25, MeanExcitationEnergy: -1, State: StateGas}
}

func detectorPath() []VolumeRecord {
	return []VolumeRecord{
		{Name: "Detector", PhysicalName: "DetectorPV", CopyNumber: 3, Material: water()},
		{Name: "World", PhysicalName: "WorldPV", Material: vacuum()},
	}
}

func worldPath() []VolumeRecord {
	return []VolumeRecord{{Name: "World", PhysicalName: "WorldPV", Material: vacuum()}}
}

func point(z, t, ekin float64, edge bool, proc string) StepPoint {
	return StepPoint{
		GlobalPos:    [3]float64{1, 2, z},
		Time:         t,
		EKin:         ekin,
		AtVolumeEdge: edge,
		LocalPos:     [3]float32{0.5, 0.25, float32(z)},
		Momentum:     [3]float32{0, 0, 2},
		Process:      proc,
	}
}

func addParticles(w *Writer) {
	w.AddParticle(Particle{PDGCode: 2112, Name: "neutron", Type: "baryon", SubType: "nucleon",
		Mass: 939.565, LifeTime: 880e9, SpinHalfs: 1, Stable: false, MagneticMoment: -1.913})
	w.AddParticle(Particle{PDGCode: 22, Name: "gamma", Type: "gamma", Stable: true, SpinHalfs: 2})
}

// sampleTracks is a neutron crossing a detector into the world and a gamma
// it produced.
func sampleTracks() []TrackRecord {
	a := point(0, 0, 2, false, "initStep")
	b := point(1, 1, 1.875, false, "hadElastic")
	c := point(3, 2, 1.75, true, "Transportation")
	d := point(10, 5, 1.75, true, "Transportation")

	return []TrackRecord{
		{
			ID: 2, PDGCode: 22, Weight: 1, CreatorProcess: "nCapture", ParentID: 1,
			Segments: []SegmentRecord{{
				Volumes: detectorPath(),
				Steps: []StepRecord{{
					Pre:  point(1, 1, 0.5, false, "hadElastic"),
					Post: point(1.5, 1.5, 0, false, "phot"),
					EDep: 0.5, StepLength: 0.5, Status: StatusPostStepDoItProc,
				}},
			}},
		},
		{
			ID: 1, PDGCode: 2112, Weight: 1,
			Segments: []SegmentRecord{
				{
					Volumes: detectorPath(),
					Steps: []StepRecord{
						{Pre: a, Post: b, EDep: 0.25, EDepNonIon: 0.125, StepLength: 1, Status: StatusPostStepDoItProc},
						{Pre: b, Post: c, EDep: 0.25, StepLength: 2, Status: StatusGeomBoundary},
					},
				},
				{
					Volumes: worldPath(),
					Steps:   []StepRecord{{Pre: c, Post: d, StepLength: 7, Status: StatusWorldBoundary}},
				},
			},
		},
	}
}

type sampleFile struct {
	mode     Mode
	events   int
	run      uint32
	userData map[string]string
}

// writeSample writes cfg.events copies of the sample event and returns the
// file name.
func writeSample(t *testing.T, dir, name string, cfg sampleFile) string {
	t.Helper()

	w, err := NewWriter(filepath.Join(dir, name), WithMode(cfg.mode))
	require.NoError(t, err)
	addParticles(w)
	w.SetMetaData("G4Version", "11.2")
	w.SetCmds([]string{"/run/verbose 0", "/tracking/verbose 0"})
	w.SetParams(ParamsGeo, "G4GeoTest/GeoTest", Params{
		DoubleParam("thickness_mm", 10),
		IntParam("nlayers", 3),
		BoolParam("shielded", true),
		StringParam("material", "G4_WATER"),
	})
	for k, v := range cfg.userData {
		w.SetUserData(k, v)
	}
	for i := 0; i < cfg.events; i++ {
		w.SetSeed(uint64(1000 + i)) //nolint:gosec
		for _, trk := range sampleTracks() {
			w.AddTrack(trk)
		}
		require.NoError(t, w.WriteEvent(cfg.run, uint32(i+1))) //nolint:gosec
	}
	require.NoError(t, w.Close())

	return w.Filename()
}

func openSample(t *testing.T, inputs []string, opts ...ReaderOption) *DataReader {
	t.Helper()

	dr, err := NewDataReader(inputs, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dr.Close() })

	return dr
}
