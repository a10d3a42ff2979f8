package griff

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/griff/errs"
	gr "github.com/arloliu/griff/griff"
)

func writeEvents(t *testing.T, w *gr.Writer, n int) string {
	t.Helper()

	w.AddParticle(gr.Particle{PDGCode: 22, Name: "gamma", Stable: true})
	mat := &gr.MaterialRecord{Name: "Air", State: gr.StateGas}
	for i := 0; i < n; i++ {
		w.AddTrack(gr.TrackRecord{ID: 1, PDGCode: 22, Segments: []gr.SegmentRecord{{
			Volumes: []gr.VolumeRecord{{Name: "World", PhysicalName: "World", Material: mat}},
			Steps: []gr.StepRecord{
				{Pre: gr.StepPoint{EKin: 1}, Post: gr.StepPoint{Time: 1, EKin: 1}, StepLength: 3},
				{Pre: gr.StepPoint{Time: 1, EKin: 1}, Post: gr.StepPoint{Time: 2, EKin: 0.25}, EDep: 0.75, StepLength: 1},
			},
		}}})
		require.NoError(t, w.WriteEvent(1, uint32(i))) //nolint:gosec
	}
	require.NoError(t, w.Close())

	return w.Filename()
}

func TestWriterConstructors(t *testing.T) {
	tests := []struct {
		name   string
		create func(string, ...gr.WriterOption) (*gr.Writer, error)
		mode   gr.Mode
		steps  int
	}{
		{"full", NewWriter, gr.ModeFull, 2},
		{"reduced", NewReducedWriter, gr.ModeReduced, 1},
		{"minimal", NewMinimalWriter, gr.ModeMinimal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.create(filepath.Join(t.TempDir(), tt.name))
			require.NoError(t, err)
			assert.Equal(t, tt.mode, w.Mode())
			file := writeEvents(t, w, 2)
			assert.Equal(t, ".griff", filepath.Ext(file))

			dr, err := Open(file)
			require.NoError(t, err)
			defer dr.Close()
			assert.Equal(t, tt.mode, dr.Mode())
			seg := dr.Track(0).FirstSegment()
			assert.Equal(t, tt.steps, seg.NStepsStored())
			assert.Equal(t, 2, seg.NStepsOriginal())
			assert.Equal(t, float32(0.75), seg.EDep())
		})
	}
}

func TestOpenWithOptions(t *testing.T) {
	w, err := NewWriter(filepath.Join(t.TempDir(), "loop"))
	require.NoError(t, err)
	file := writeEvents(t, w, 3)

	dr, err := OpenWithOptions([]string{file}, gr.WithLoopCount(2))
	require.NoError(t, err)
	defer dr.Close()
	n := 0
	for dr.LoopEvents() {
		n++
	}
	assert.Equal(t, 6, n)
}

func TestVerify(t *testing.T) {
	w, err := NewMinimalWriter(filepath.Join(t.TempDir(), "verify"))
	require.NoError(t, err)
	file := writeEvents(t, w, 3)

	n, err := Verify(file)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff
	require.NoError(t, os.WriteFile(file, data, 0o600))

	n, err = Verify(file)
	require.ErrorIs(t, err, errs.ErrIntegrity)
	assert.Equal(t, 2, n)

	_, err = Verify(filepath.Join(t.TempDir(), "missing.griff"))
	require.ErrorIs(t, err, errs.ErrOpenFailed)
}

func TestDumpInfo(t *testing.T) {
	w, err := NewReducedWriter(filepath.Join(t.TempDir(), "info"))
	require.NoError(t, err)
	file := writeEvents(t, w, 1)

	var out bytes.Buffer
	require.True(t, DumpInfo(&out, file))
	assert.Contains(t, out.String(), "Total [nevts=1]:")
}
