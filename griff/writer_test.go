package griff

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/griff/errs"
)

func TestWriterRejectsInvalidTracks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(trks []TrackRecord) []TrackRecord
	}{
		{"non-positive id", func(trks []TrackRecord) []TrackRecord {
			trks[0].ID = 0
			return trks
		}},
		{"duplicate id", func(trks []TrackRecord) []TrackRecord {
			trks[0].ID = 1
			return trks
		}},
		{"undefined pdg code", func(trks []TrackRecord) []TrackRecord {
			trks[0].PDGCode = 11
			return trks
		}},
		{"no segments", func(trks []TrackRecord) []TrackRecord {
			trks[1].Segments = nil
			return trks
		}},
		{"no steps", func(trks []TrackRecord) []TrackRecord {
			trks[1].Segments[1].Steps = nil
			return trks
		}},
		{"no volumes", func(trks []TrackRecord) []TrackRecord {
			trks[0].Segments[0].Volumes = nil
			return trks
		}},
		{"volume without material", func(trks []TrackRecord) []TrackRecord {
			trks[0].Segments[0].Volumes[1].Material = nil
			return trks
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWriter(filepath.Join(t.TempDir(), "invalid"))
			require.NoError(t, err)
			addParticles(w)

			for _, trk := range tt.mutate(sampleTracks()) {
				w.AddTrack(trk)
			}
			require.ErrorIs(t, w.WriteEvent(1, 1), errs.ErrInvalidRecord)
			assert.Equal(t, 0, w.EventsWritten())

			// the rejected tracks are gone and the writer stays usable
			for _, trk := range sampleTracks() {
				w.AddTrack(trk)
			}
			require.NoError(t, w.WriteEvent(1, 2))
			assert.Equal(t, 1, w.EventsWritten())
			require.NoError(t, w.Close())

			dr := openSample(t, []string{w.Filename()})
			assert.Equal(t, uint32(2), dr.EventNumber())
			assert.Equal(t, 2, dr.NTracks())
		})
	}
}

func TestWriterModes(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "bad"), WithMode(Mode(2)))
	require.ErrorIs(t, err, errs.ErrInvalidMode)

	w, err := NewWriter(filepath.Join(t.TempDir(), "modes"))
	require.NoError(t, err)
	assert.Equal(t, ModeFull, w.Mode())
	require.ErrorIs(t, w.SetMode(Mode(7)), errs.ErrInvalidMode)
	assert.Equal(t, ModeFull, w.Mode())

	addParticles(w)
	for i, m := range []Mode{ModeFull, ModeMinimal, ModeReduced} {
		require.NoError(t, w.SetMode(m))
		for _, trk := range sampleTracks() {
			w.AddTrack(trk)
		}
		require.NoError(t, w.WriteEvent(1, uint32(i))) //nolint:gosec
	}
	require.NoError(t, w.Close())

	dr := openSample(t, []string{w.Filename()}, WithAllowSetupChange())
	var modes []Mode
	var stored []int
	for dr.LoopEvents() {
		modes = append(modes, dr.Mode())
		stored = append(stored, dr.Track(0).FirstSegment().NStepsStored())
		m, ok := dr.Setup().Mode()
		require.True(t, ok)
		assert.Equal(t, dr.Mode(), m)
	}
	assert.Equal(t, []Mode{ModeFull, ModeMinimal, ModeReduced}, modes)
	assert.Equal(t, []int{2, 0, 1}, stored)
}

func TestWriterNextFilteredSegment(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "filtered"))
	require.NoError(t, err)
	addParticles(w)

	trks := sampleTracks()
	neutron := &trks[1]
	neutron.Segments[0].NextFiltered = true
	// the gap shows up as a different end time
	neutron.Segments[1].Steps[0].Pre = point(4, 3, 1.5, true, "Transportation")
	neutron.Segments[1].NextFiltered = true
	for _, trk := range trks {
		w.AddTrack(trk)
	}
	require.NoError(t, w.WriteEvent(1, 1))
	require.NoError(t, w.Close())

	dr := openSample(t, []string{w.Filename()})
	s0 := dr.Track(0).Segment(0)
	assert.True(t, s0.NextWasFiltered())
	assert.Equal(t, 2.0, s0.EndTime())
	assert.Equal(t, 1.75, s0.EndEKin())
	s1 := dr.Track(0).Segment(1)
	assert.Equal(t, 3.0, s1.StartTime())
	assert.False(t, s1.NextWasFiltered())
	assert.Equal(t, 5.0, s1.EndTime())
}

func TestModeParse(t *testing.T) {
	for _, m := range []Mode{ModeFull, ModeReduced, ModeMinimal} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
		assert.True(t, m.Valid())
	}
	_, err := ParseMode("COMPACT")
	require.ErrorIs(t, err, errs.ErrInvalidMode)
	assert.False(t, Mode(2).Valid())
	assert.Equal(t, "UNKNOWN(2)", Mode(2).String())
}

func TestParamsEncoding(t *testing.T) {
	params := Params{
		DoubleParam("energy_mev", 2.5),
		IntParam("seed_offset", -4),
		BoolParam("verbose", false),
		StringParam("particle", "neutron"),
	}
	got, err := DecodeParams(params.Encode())
	require.NoError(t, err)
	assert.Equal(t, params, got)

	empty, err := DecodeParams(Params{}.Encode())
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DecodeParams(params.Encode()[:10])
	require.Error(t, err)

	bad := Params{IntParam("x", 1)}.Encode()
	bad[4+2+1] = 9 // type byte after u32 count and the u16-counted name
	_, err = DecodeParams(bad)
	require.ErrorIs(t, err, errs.ErrInvalidRecord)

	var out bytes.Buffer
	params.Dump(&out, "> ")
	assert.Equal(t, "> [dbl] energy_mev = 2.5\n"+
		"> [int] seed_offset = -4\n"+
		"> [flg] verbose = no\n"+
		"> [str] particle = \"neutron\"\n", out.String())
}

func TestSetupSplitsKeys(t *testing.T) {
	gen := Params{DoubleParam("energy", 1)}
	filter := Params{StringParam("volume", "Detector")}
	kill := Params{BoolParam("killNeutrinos", true)}
	all := map[string]string{
		"G4Version":             "11.2",
		"^owner":                "anatest",
		"`blob":                 "\x00\x01",
		"genName":               "G4SimpleGen",
		"`genSerialised":        string(gen.Encode()),
		"filterName":            "G4VolFilter",
		"`filterSerialised":     string(filter.Encode()),
		"killFilterName":        "G4NeutrinoKiller",
		"`killFilterSerialised": string(kill.Encode()),
	}
	s := newSetup(all)

	assert.Equal(t, "anatest", s.UserData()["owner"])
	assert.Equal(t, "\x00\x01", s.BinaryData()["blob"])
	_, ok := s.MetaData()["^owner"]
	assert.False(t, ok)
	_, ok = s.Mode()
	assert.False(t, ok)
	assert.Empty(t, s.Cmds())
	assert.Nil(t, s.Geo())
	require.NotNil(t, s.Gen())
	assert.Equal(t, gen, s.Gen().Params)
	assert.True(t, s.HasFilter())
	assert.True(t, s.HasKillFilter())

	other := newSetup(map[string]string{"G4Version": "11.2"})
	assert.False(t, s.Equal(other))
	assert.True(t, other.Equal(newSetup(map[string]string{"G4Version": "11.2"})))

	var out bytes.Buffer
	s.Dump(&out, "")
	dump := out.String()
	assert.Contains(t, dump, "  Geant4 Commands:\n    <none>\n")
	assert.Contains(t, dump, "  ParticleGenerator[G4SimpleGen]:\n    [dbl] energy = 1\n")
	assert.Contains(t, dump, "  StepFilter[G4VolFilter]:\n    [str] volume = \"Detector\"\n")
	assert.Contains(t, dump, "  KillFilter:\n    StepFilter[G4NeutrinoKiller]:\n      [flg] killNeutrinos = yes\n")

	broken := newSetup(map[string]string{"geoName": "G", "`geoSerialised": "\x01"})
	_, err := broken.Params(ParamsGeo)
	require.Error(t, err)
	assert.Nil(t, broken.Geo())
}

func TestEntryEquality(t *testing.T) {
	a := TouchableEntry{Levels: []VolumeLevel{{CopyNumber: 1, VolumeNameIdx: 2, MaterialIdx: 3}}}
	b := TouchableEntry{Levels: []VolumeLevel{{CopyNumber: 1, VolumeNameIdx: 2, MaterialIdx: 3}}}
	c := TouchableEntry{Levels: []VolumeLevel{{CopyNumber: 2, VolumeNameIdx: 2, MaterialIdx: 3}}}
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Hash(), c.Hash())

	m1 := MaterialEntry{NameIdx: 1, Density: 1, State: StateGas, Elements: []ElementFraction{{Fraction: 1, ElementIdx: 0}}}
	m2 := m1
	m2.Elements = []ElementFraction{{Fraction: 0.5, ElementIdx: 0}}
	assert.False(t, m1.Equal(m2))
	assert.Equal(t, "Gas", StateGas.String())
}
