package griff

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/evtfile"
	"github.com/arloliu/griff/internal/options"
	"github.com/arloliu/griff/internal/pool"
)

type WriterOption = options.Option[*Writer]

// WithWriterLogger sets the logger of the writer and its container.
func WithWriterLogger(logger *logrus.Entry) WriterOption {
	return options.NoError(func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	})
}

// WithMode sets the initial storage mode. The default is ModeFull.
func WithMode(m Mode) WriterOption {
	return options.New(func(w *Writer) error {
		if !m.Valid() {
			return fmt.Errorf("%w: %s", errs.ErrInvalidMode, m)
		}
		w.mode = m

		return nil
	})
}

// WithFileWriterOptions passes options to the underlying container writer.
func WithFileWriterOptions(opts ...evtfile.WriterOption) WriterOption {
	return options.NoError(func(w *Writer) {
		w.fwOpts = append(w.fwOpts, opts...)
	})
}

// Writer serialises tracks, segments and steps into a Griff file.
//
// Names and reference data are interned into the DB tables and written with
// the first event that uses them. Tracks are collected with AddTrack and
// written by WriteEvent.
type Writer struct {
	fw     *evtfile.FileWriter
	fwOpts []evtfile.WriterOption
	logger *logrus.Entry
	mode   Mode
	seed   uint64

	volNames, materialNames, elementNames, isotopeNames *evtfile.DBStringsWriter
	procNames, pdgNames, pdgTypes, pdgSubTypes          *evtfile.DBStringsWriter
	metaDataStrings                                     *evtfile.DBStringsWriter

	touchables *evtfile.DBEntryWriter[TouchableEntry]
	materials  *evtfile.DBEntryWriter[MaterialEntry]
	elements   *evtfile.DBEntryWriter[ElementEntry]
	isotopes   *evtfile.DBEntryWriter[IsotopeEntry]
	metaData   *evtfile.DBEntryWriter[MetaDataEntry]
	pdg        *pdgWriter

	meta      map[string]string
	metaDirty bool
	metaIdx   uint32

	tracks []TrackRecord
}

// NewWriter creates filename, appending ".griff" when missing.
func NewWriter(filename string, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		logger: logrus.WithField("component", "griff"),
		mode:   ModeFull,
		meta:   make(map[string]string),
	}
	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	fwOpts := append([]evtfile.WriterOption{evtfile.WithWriterLogger(w.logger)}, w.fwOpts...)
	fw, err := evtfile.NewFileWriter(Format, filename, fwOpts...)
	if err != nil {
		return nil, err
	}
	w.fw = fw

	w.volNames = evtfile.NewDBStringsWriter(fw, SubSectVolNames)
	w.materialNames = evtfile.NewDBStringsWriter(fw, SubSectMaterialNames)
	w.elementNames = evtfile.NewDBStringsWriter(fw, SubSectElementNames)
	w.isotopeNames = evtfile.NewDBStringsWriter(fw, SubSectIsotopeNames)
	w.procNames = evtfile.NewDBStringsWriter(fw, SubSectProcNames)
	w.pdgNames = evtfile.NewDBStringsWriter(fw, SubSectPDGNames)
	w.pdgTypes = evtfile.NewDBStringsWriter(fw, SubSectPDGTypes)
	w.pdgSubTypes = evtfile.NewDBStringsWriter(fw, SubSectPDGSubTypes)
	w.metaDataStrings = evtfile.NewDBStringsWriter(fw, SubSectMetaDataStrings)
	w.touchables = evtfile.NewDBEntryWriter[TouchableEntry](fw, SubSectTouchables)
	w.materials = evtfile.NewDBEntryWriter[MaterialEntry](fw, SubSectMaterials)
	w.elements = evtfile.NewDBEntryWriter[ElementEntry](fw, SubSectElements)
	w.isotopes = evtfile.NewDBEntryWriter[IsotopeEntry](fw, SubSectIsotopes)
	w.metaData = evtfile.NewDBEntryWriter[MetaDataEntry](fw, SubSectMetaData)
	w.pdg = newPDGWriter()
	fw.RegisterPreFlushCallback(w.pdg)

	w.setMeta(modeKey, w.mode.String())

	return w, nil
}

// Filename returns the name of the file being written.
func (w *Writer) Filename() string { return w.fw.Filename() }

// EventsWritten returns the number of events flushed so far.
func (w *Writer) EventsWritten() int { return w.fw.EventsWritten() }

// Mode returns the storage mode of the next event.
func (w *Writer) Mode() Mode { return w.mode }

// SetMode changes the storage mode from the next event on.
func (w *Writer) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %s", errs.ErrInvalidMode, m)
	}
	w.mode = m
	w.setMeta(modeKey, m.String())

	return nil
}

// SetSeed sets the random seed recorded with the next event.
func (w *Writer) SetSeed(seed uint64) { w.seed = seed }

func (w *Writer) setMeta(key, value string) {
	if old, ok := w.meta[key]; ok && old == value {
		return
	}
	w.meta[key] = value
	w.metaDirty = true
}

// SetMetaData records a standard metadata value for the next events.
func (w *Writer) SetMetaData(key, value string) {
	if key == "" {
		panic("griff: empty metadata key")
	}
	w.setMeta(key, value)
}

// SetUserData records a custom metadata value.
func (w *Writer) SetUserData(key, value string) {
	if key == "" {
		panic("griff: empty user data key")
	}
	w.setMeta(userKeyPrefix+key, value)
}

// SetBinaryData records a binary blob.
func (w *Writer) SetBinaryData(key string, data []byte) {
	if key == "" {
		panic("griff: empty binary data key")
	}
	w.setMeta(binaryKeyPrefix+key, string(data))
}

// SetCmds records the Geant4 commands of the job.
func (w *Writer) SetCmds(cmds []string) {
	buf := encoding.NewWriter(pool.NewByteBuffer(256))
	buf.WriteStrings(cmds)
	w.SetBinaryData(cmdsKey, buf.Bytes())
}

// SetParams records the parameter set of kind together with its owner name.
func (w *Writer) SetParams(kind ParamKind, name string, params Params) {
	stem := kind.keyPrefix()
	w.SetMetaData(stem+"Name", name)
	w.SetBinaryData(stem+"Serialised", params.Encode())
}

// AddParticle defines the properties of a particle type. Every PDG code
// used by a track must be defined before the event is written.
func (w *Writer) AddParticle(p Particle) {
	w.pdg.define(ParticleDefinition{
		Mass:           p.Mass,
		Width:          p.Width,
		Charge:         p.Charge,
		LifeTime:       p.LifeTime,
		NameIdx:        w.pdgNames.GetIndex(p.Name),
		TypeIdx:        w.pdgTypes.GetIndex(p.Type),
		SubTypeIdx:     w.pdgSubTypes.GetIndex(p.SubType),
		PDGCode:        p.PDGCode,
		AtomicNumber:   p.AtomicNumber,
		AtomicMass:     p.AtomicMass,
		MagneticMoment: p.MagneticMoment,
		SpinHalfs:      p.SpinHalfs,
		Stable:         p.Stable,
		ShortLived:     p.ShortLived,
	})
}

// AddTrack adds a track to the current event.
func (w *Writer) AddTrack(t TrackRecord) {
	w.tracks = append(w.tracks, t)
}

// WriteEvent encodes the collected tracks and flushes the event. The
// collected tracks are discarded whether or not the event was written.
//
// Returns errs.ErrInvalidRecord without writing anything when a track is
// malformed.
func (w *Writer) WriteEvent(run, evt uint32) error {
	defer func() {
		clear(w.tracks)
		w.tracks = w.tracks[:0]
	}()

	slices.SortStableFunc(w.tracks, func(a, b TrackRecord) int { return cmp.Compare(a.ID, b.ID) })
	touchIdx, err := w.prepare()
	if err != nil {
		return err
	}
	w.encode(touchIdx)

	if err := w.fw.FlushEventToDisk(run, evt); err != nil {
		return err
	}
	w.logger.WithFields(logrus.Fields{"run": run, "event": evt, "tracks": len(w.tracks)}).Debug("griff event written")

	return nil
}

// prepare validates the tracks and interns the reference data they use.
// It returns the touchable index of every segment in write order.
func (w *Writer) prepare() ([]uint32, error) {
	var touchIdx []uint32
	for i := range w.tracks {
		t := &w.tracks[i]
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: %w %d", errs.ErrInvalidRecord, errs.ErrInvalidTrackID, t.ID)
		}
		if i > 0 && w.tracks[i-1].ID == t.ID {
			return nil, fmt.Errorf("%w: duplicate %w %d", errs.ErrInvalidRecord, errs.ErrInvalidTrackID, t.ID)
		}
		if !w.pdg.defined(t.PDGCode) {
			return nil, fmt.Errorf("%w: track %d has undefined pdg code %d", errs.ErrInvalidRecord, t.ID, t.PDGCode)
		}
		if len(t.Segments) == 0 {
			return nil, fmt.Errorf("%w: track %d has no segments", errs.ErrInvalidRecord, t.ID)
		}
		for j := range t.Segments {
			seg := &t.Segments[j]
			if len(seg.Steps) == 0 {
				return nil, fmt.Errorf("%w: segment %d of track %d has no steps", errs.ErrInvalidRecord, j, t.ID)
			}
			idx, err := w.touchableIndex(seg.Volumes)
			if err != nil {
				return nil, fmt.Errorf("segment %d of track %d: %w", j, t.ID, err)
			}
			touchIdx = append(touchIdx, idx)
		}
	}

	return touchIdx, nil
}

func (w *Writer) touchableIndex(vols []VolumeRecord) (uint32, error) {
	if len(vols) == 0 || len(vols) > math.MaxUint8 {
		return 0, fmt.Errorf("%w: volume depth %d", errs.ErrInvalidRecord, len(vols))
	}
	e := TouchableEntry{Levels: make([]VolumeLevel, len(vols))}
	for i, v := range vols {
		if v.Material == nil {
			return 0, fmt.Errorf("%w: volume %q has no material", errs.ErrInvalidRecord, v.Name)
		}
		e.Levels[i] = VolumeLevel{
			CopyNumber:        v.CopyNumber,
			VolumeNameIdx:     w.volNames.GetIndex(v.Name),
			PhysVolumeNameIdx: w.volNames.GetIndex(v.PhysicalName),
			MaterialIdx:       w.materialIndex(v.Material),
		}
	}
	idx := w.touchables.GetIndex(e)
	if idx > maxTouchableIndex {
		return 0, fmt.Errorf("%w: touchable table full", errs.ErrInvalidRecord)
	}

	return idx, nil
}

func (w *Writer) materialIndex(m *MaterialRecord) uint32 {
	e := MaterialEntry{
		NameIdx:                  w.materialNames.GetIndex(m.Name),
		Density:                  m.Density,
		Temperature:              m.Temperature,
		Pressure:                 m.Pressure,
		RadiationLength:          m.RadiationLength,
		NuclearInteractionLength: m.NuclearInteractionLength,
		MeanExcitationEnergy:     m.MeanExcitationEnergy,
		State:                    m.State,
		Elements:                 make([]ElementFraction, len(m.Elements)),
	}
	for i, c := range m.Elements {
		e.Elements[i] = ElementFraction{Fraction: c.Fraction, ElementIdx: w.elementIndex(&c.Element)}
	}

	return w.materials.GetIndex(e)
}

func (w *Writer) elementIndex(el *ElementRecord) uint32 {
	e := ElementEntry{
		NameIdx:           w.elementNames.GetIndex(el.Name),
		SymbolIdx:         w.elementNames.GetIndex(el.Symbol),
		Z:                 el.Z,
		N:                 el.N,
		A:                 el.A,
		NaturalAbundances: el.NaturalAbundances,
		Isotopes:          make([]IsotopeAbundance, len(el.Isotopes)),
	}
	for i, c := range el.Isotopes {
		iso := IsotopeEntry{
			NameIdx: w.isotopeNames.GetIndex(c.Isotope.Name),
			Z:       c.Isotope.Z,
			N:       c.Isotope.N,
			A:       c.Isotope.A,
			M:       c.Isotope.M,
		}
		e.Isotopes[i] = IsotopeAbundance{RelativeAbundance: c.RelativeAbundance, IsotopeIdx: w.isotopes.GetIndex(iso)}
	}

	return w.elements.GetIndex(e)
}

func (w *Writer) metaDataIndex() uint32 {
	if !w.metaDirty {
		return w.metaIdx
	}
	var e MetaDataEntry
	for _, k := range slices.Sorted(maps.Keys(w.meta)) {
		e.Pairs = append(e.Pairs, MetaDataPair{
			KeyIdx:   w.metaDataStrings.GetIndex(k),
			ValueIdx: w.metaDataStrings.GetIndex(w.meta[k]),
		})
	}
	w.metaIdx = w.metaData.GetIndex(e)
	w.metaDirty = false

	return w.metaIdx
}

// daughters returns the sorted daughter ids of every track.
func (w *Writer) daughters() map[int32][]int32 {
	out := make(map[int32][]int32)
	for i := range w.tracks {
		t := &w.tracks[i]
		if len(t.Daughters) > 0 {
			out[t.ID] = append(out[t.ID], t.Daughters...)
		}
		if t.ParentID != 0 {
			out[t.ParentID] = append(out[t.ParentID], t.ID)
		}
	}
	for id, d := range out {
		slices.Sort(d)
		out[id] = slices.Compact(d)
	}

	return out
}

func (w *Writer) encode(touchIdx []uint32) {
	brief := w.fw.BriefSection()
	full := w.fw.FullSection()
	daughters := w.daughters()

	brief.WriteUint64(w.seed)
	brief.WriteUint32(w.metaDataIndex())
	brief.WriteUint32(uint32(len(w.tracks))) //nolint:gosec
	brief.WriteUint32(uint32(w.mode))

	for i := range w.tracks {
		t := &w.tracks[i]
		d := daughters[t.ID]
		brief.WriteInt32(t.ID)
		brief.WriteInt32(t.PDGCode)
		brief.WriteFloat32(t.Weight)
		brief.WriteUint32(w.procNames.GetIndex(t.CreatorProcess))
		brief.WriteInt32(t.ParentID)
		brief.WriteUint32(uint32(len(t.Segments))) //nolint:gosec
		brief.WriteUint32(uint32(len(d)))          //nolint:gosec
		for _, id := range d {
			brief.WriteInt32(id)
		}
		w.pdg.register(t.PDGCode)
	}

	k := 0
	for i := range w.tracks {
		t := &w.tracks[i]
		for j := range t.Segments {
			last := j == len(t.Segments)-1
			w.encodeSegment(brief, full, &t.Segments[j], touchIdx[k], last)
			k++
		}
	}
}

func (w *Writer) encodeSegment(brief, full *encoding.Writer, seg *SegmentRecord, touchable uint32, lastOnTrack bool) {
	first := &seg.Steps[0]
	final := &seg.Steps[len(seg.Steps)-1]
	nextFiltered := seg.NextFiltered && !lastOnTrack

	volinfo := touchable
	if first.Pre.AtVolumeEdge {
		volinfo |= volInfoStartAtEdge
	}
	if final.Post.AtVolumeEdge {
		volinfo |= volInfoEndAtEdge
	}
	if nextFiltered {
		volinfo |= volInfoNextFiltered
	}

	var eDep, eDepNonIon, length float64
	for i := range seg.Steps {
		eDep += seg.Steps[i].EDep
		eDepNonIon += seg.Steps[i].EDepNonIon
		length += seg.Steps[i].StepLength
	}

	brief.WriteFloat64(first.Pre.Time)
	brief.WriteFloat64(first.Pre.EKin)
	brief.WriteUint32(volinfo)
	if w.mode == ModeMinimal {
		brief.WriteInt32(-int32(len(seg.Steps))) //nolint:gosec
	} else {
		brief.WriteInt32(int32(full.Len())) //nolint:gosec
	}
	brief.WriteFloat32(float32(eDep))
	brief.WriteFloat32(float32(eDepNonIon))
	if lastOnTrack || nextFiltered {
		brief.WriteFloat64(final.Post.Time)
		brief.WriteFloat64(final.Post.EKin)
	}

	switch w.mode {
	case ModeFull:
		full.WriteUint32(uint32(len(seg.Steps))) //nolint:gosec
		full.WriteUint32(uint32(len(seg.Steps))) //nolint:gosec
		for i := range seg.Steps {
			s := &seg.Steps[i]
			w.encodePoint(full, &s.Pre)
			encodeStepPart(full, s.EDep, s.EDepNonIon, s.StepLength, s.Status)
		}
		w.encodePoint(full, &final.Post)
	case ModeReduced:
		status := StatusUndefined
		if len(seg.Steps) == 1 {
			status = first.Status
		}
		full.WriteUint32(uint32(len(seg.Steps))) //nolint:gosec
		full.WriteUint32(1)
		w.encodePoint(full, &first.Pre)
		encodeStepPart(full, eDep, eDepNonIon, length, status)
		w.encodePoint(full, &final.Post)
	}
}

// encodePoint writes a step point. The sign bit of the kinetic energy
// carries the volume edge flag.
func (w *Writer) encodePoint(out *encoding.Writer, p *StepPoint) {
	for _, v := range p.GlobalPos {
		out.WriteFloat64(v)
	}
	out.WriteFloat64(p.Time)
	ekin := math.Abs(p.EKin)
	if p.AtVolumeEdge {
		ekin = math.Copysign(ekin, -1)
	}
	out.WriteFloat64(ekin)
	for _, v := range p.LocalPos {
		out.WriteFloat32(v)
	}
	for _, v := range p.Momentum {
		out.WriteFloat32(v)
	}
	out.WriteUint32(w.procNames.GetIndex(p.Process))
}

func encodeStepPart(out *encoding.Writer, eDep, eDepNonIon, length float64, status StepStatus) {
	out.WriteFloat32(float32(eDep))
	out.WriteFloat32(float32(eDepNonIon))
	out.WriteFloat32(float32(length))
	out.WriteUint32(uint32(status))
}

// Close flushes and closes the file. Collected but unwritten tracks are
// dropped.
func (w *Writer) Close() error {
	w.tracks = nil

	return w.fw.Close()
}
