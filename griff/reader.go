package griff

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/evtfile"
	"github.com/arloliu/griff/internal/options"
	"github.com/arloliu/griff/internal/pool"
)

// BeginEventCallback is notified when the reader enters an event.
type BeginEventCallback interface {
	BeginEvent(dr *DataReader)
}

// EndEventCallback is notified when the reader leaves an event.
type EndEventCallback interface {
	EndEvent(dr *DataReader)
}

// BeginEventFunc adapts a function to BeginEventCallback.
type BeginEventFunc func(dr *DataReader)

func (f BeginEventFunc) BeginEvent(dr *DataReader) { f(dr) }

// EndEventFunc adapts a function to EndEventCallback.
type EndEventFunc func(dr *DataReader)

func (f EndEventFunc) EndEvent(dr *DataReader) { f(dr) }

type ReaderOption = options.Option[*DataReader]

// WithLoopCount sets how many times the input files are traversed. Zero
// loops forever. The default is one.
func WithLoopCount(n int) ReaderOption {
	return options.New(func(dr *DataReader) error {
		if n < 0 {
			return fmt.Errorf("invalid loop count %d", n)
		}
		dr.loopsOrig = n

		return nil
	})
}

// WithAllowSetupChange accepts events simulated with different setups.
func WithAllowSetupChange() ReaderOption {
	return options.NoError(func(dr *DataReader) { dr.allowSetupChange = true })
}

// WithLogger sets the logger of the reader and its file readers.
func WithLogger(logger *logrus.Entry) ReaderOption {
	return options.NoError(func(dr *DataReader) {
		if logger != nil {
			dr.logger = logger
		}
	})
}

// WithBeginEventCallback registers cb before the first event is entered.
func WithBeginEventCallback(cb BeginEventCallback) ReaderOption {
	return options.NoError(func(dr *DataReader) { dr.beginCBs = append(dr.beginCBs, cb) })
}

// WithEndEventCallback registers cb.
func WithEndEventCallback(cb EndEventCallback) ReaderOption {
	return options.NoError(func(dr *DataReader) { dr.endCBs = append(dr.endCBs, cb) })
}

type trackData struct {
	id          int32
	pdgCode     int32
	weight      float32
	creatorProc uint32
	parentID    int32
	daughters   []int32
	firstSeg    int
	nSeg        int
}

type segmentData struct {
	track      int
	startTime  float64
	startEKin  float64
	endTime    float64
	endEKin    float64
	volinfo    uint32
	stepIdx    int32
	eDep       float32
	eDepNonIon float32

	stepsReady bool
	steps      []stepData
}

// stepData is the offset of a stored step in the uncompressed Full data.
type stepData struct {
	off int
}

type metaKey struct {
	mdIdx   uint32
	fileIdx int
}

// DataReader iterates over the events of one or more Griff files and gives
// access to their tracks, segments and steps.
//
// Handles returned by the reader are only valid until the next navigation
// call. DataReader is not safe for concurrent use.
type DataReader struct {
	logger           *logrus.Entry
	loopsOrig        int
	loops            int
	allowSetupChange bool
	beginCBs         []BeginEventCallback
	endCBs           []EndEventCallback

	files   []string
	fileIdx int
	fr      *evtfile.FileReader
	err     error

	mgr                                                 *evtfile.DBSubSectReaderMgr
	volNames, materialNames, elementNames, isotopeNames *evtfile.DBStringsReader
	procNames, pdgNames, pdgTypes, pdgSubTypes          *evtfile.DBStringsReader
	metaDataStrings                                     *evtfile.DBStringsReader
	touchables                                          *evtfile.DBEntryReader[TouchableEntry]
	materials                                           *evtfile.DBEntryReader[MaterialEntry]
	elements                                            *evtfile.DBEntryReader[ElementEntry]
	isotopes                                            *evtfile.DBEntryReader[IsotopeEntry]
	metaData                                            *evtfile.DBEntryReader[MetaDataEntry]
	pdg                                                 *pdgReader

	// current event
	active     bool
	seed       uint64
	mdIdx      uint32
	mode       Mode
	tracks     []trackData
	segments   []segmentData
	daughters  []int32
	nPrimary   int
	contiguous bool
	byID       map[int32]int
	full       []byte
	fullLoaded bool
	stepSlab   *pool.Slab[stepData]

	eventsProcessed int
	loopStarted     bool
	loopCount       int

	setup        *Setup
	setups       map[metaKey]*Setup
	lastAccessed metaKey
	accessed     bool
	cachedMeta   metaKey
	cachedMap    map[string]string
	haveCached   bool
}

// NewDataReader opens the first of inputs and positions at its first event.
//
// Inputs containing '*' are expanded as glob patterns, each sorted. Names
// without the ".griff" extension get it appended. Every resulting file must
// exist.
func NewDataReader(inputs []string, opts ...ReaderOption) (*DataReader, error) {
	dr := &DataReader{
		logger:    logrus.WithField("component", "griff"),
		loopsOrig: 1,
		fileIdx:   -1,
		stepSlab:  pool.NewSlab[stepData](defaultStepSlabBlockLen),
		setups:    make(map[metaKey]*Setup),
	}
	if err := options.Apply(dr, opts...); err != nil {
		return nil, err
	}

	files, err := expandInputs(inputs)
	if err != nil {
		return nil, err
	}
	dr.files = files
	dr.initDB()

	dr.GoToFirstEvent()
	if dr.err != nil {
		dr.Close()
		return nil, dr.err
	}

	return dr, nil
}

func expandInputs(inputs []string) ([]string, error) {
	var files []string
	for _, in := range inputs {
		if strings.Contains(in, "*") {
			matches, err := filepath.Glob(in)
			if err != nil {
				return nil, fmt.Errorf("input pattern %q: %w", in, err)
			}
			slices.Sort(matches)
			files = append(files, matches...)
			continue
		}
		if !strings.HasSuffix(in, FileExtension) {
			in += FileExtension
		}
		files = append(files, in)
	}
	if len(files) == 0 {
		if len(inputs) > 0 {
			return nil, fmt.Errorf("%w: no files match the input patterns", errs.ErrNoInputFiles)
		}

		return nil, errs.ErrNoInputFiles
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return nil, fmt.Errorf("%w: input file %s: %w", errs.ErrOpenFailed, f, err)
		}
	}

	return files, nil
}

func (dr *DataReader) initDB() {
	dr.volNames = evtfile.NewDBStringsReader()
	dr.materialNames = evtfile.NewDBStringsReader()
	dr.elementNames = evtfile.NewDBStringsReader()
	dr.isotopeNames = evtfile.NewDBStringsReader()
	dr.procNames = evtfile.NewDBStringsReader()
	dr.pdgNames = evtfile.NewDBStringsReader()
	dr.pdgTypes = evtfile.NewDBStringsReader()
	dr.pdgSubTypes = evtfile.NewDBStringsReader()
	dr.metaDataStrings = evtfile.NewDBStringsReader()
	dr.touchables = evtfile.NewDBEntryReader(decodeTouchable)
	dr.materials = evtfile.NewDBEntryReader(decodeMaterial)
	dr.elements = evtfile.NewDBEntryReader(decodeElement)
	dr.isotopes = evtfile.NewDBEntryReader(decodeIsotope)
	dr.metaData = evtfile.NewDBEntryReader(decodeMetaData)
	dr.pdg = newPDGReader()

	m := evtfile.NewDBSubSectReaderMgr()
	m.AddSubSection(SubSectTouchables, dr.touchables)
	m.AddSubSection(SubSectVolNames, dr.volNames)
	m.AddSubSection(SubSectMaterials, dr.materials)
	m.AddSubSection(SubSectElements, dr.elements)
	m.AddSubSection(SubSectIsotopes, dr.isotopes)
	m.AddSubSection(SubSectMaterialNames, dr.materialNames)
	m.AddSubSection(SubSectElementNames, dr.elementNames)
	m.AddSubSection(SubSectIsotopeNames, dr.isotopeNames)
	m.AddSubSection(SubSectProcNames, dr.procNames)
	m.AddSubSection(SubSectPDGCodes, dr.pdg)
	m.AddSubSection(SubSectPDGNames, dr.pdgNames)
	m.AddSubSection(SubSectPDGTypes, dr.pdgTypes)
	m.AddSubSection(SubSectPDGSubTypes, dr.pdgSubTypes)
	m.AddSubSection(SubSectMetaData, dr.metaData)
	m.AddSubSection(SubSectMetaDataStrings, dr.metaDataStrings)
	dr.mgr = m
}

// AllowSetupChange accepts events simulated with different setups from now on.
func (dr *DataReader) AllowSetupChange() { dr.allowSetupChange = true }

// RegisterBeginEventCallback adds cb to the callbacks of entered events.
func (dr *DataReader) RegisterBeginEventCallback(cb BeginEventCallback) {
	dr.beginCBs = append(dr.beginCBs, cb)
}

// RegisterEndEventCallback adds cb to the callbacks of left events.
func (dr *DataReader) RegisterEndEventCallback(cb EndEventCallback) {
	dr.endCBs = append(dr.endCBs, cb)
}

// Err returns the error that stopped the iteration, if any.
func (dr *DataReader) Err() error { return dr.err }

// NFiles returns the number of input files.
func (dr *DataReader) NFiles() int { return len(dr.files) }

// Files returns the expanded input files.
func (dr *DataReader) Files() []string { return dr.files }

// CurrentFile returns the name of the open file, or "" when none is open.
func (dr *DataReader) CurrentFile() string {
	if dr.fileIdx < 0 || dr.fileIdx >= len(dr.files) {
		return ""
	}

	return dr.files[dr.fileIdx]
}

// CurrentFileIndex returns the position of the open file in Files, or -1.
func (dr *DataReader) CurrentFileIndex() int {
	if dr.fileIdx >= len(dr.files) {
		return -1
	}

	return dr.fileIdx
}

// EventsProcessed returns how many events were entered since creation.
func (dr *DataReader) EventsProcessed() int { return dr.eventsProcessed }

// Version returns the format version of the open file, or -1.
func (dr *DataReader) Version() int32 {
	if dr.fr == nil {
		return -1
	}

	return dr.fr.Version()
}

// EventActive reports whether the reader is positioned at a readable event.
func (dr *DataReader) EventActive() bool { return dr.active }

func (dr *DataReader) fail(err error) {
	if dr.err == nil {
		dr.err = err
	}
	dr.logger.WithError(err).Warn("griff reader stopped")
}

// initFile opens file i, or rewinds it when it is already the open file.
func (dr *DataReader) initFile(i int) {
	dr.clearEvent()
	if dr.fr != nil {
		if dr.fr.OK() && dr.fr.Filename() == dr.files[i] {
			dr.fr.GoToFirstEvent()
			dr.fileIdx = i

			return
		}
		_ = dr.fr.Close()
		dr.fr = nil
	}

	dr.fileIdx = i
	dr.fr = evtfile.NewFileReader(Format, dr.files[i],
		evtfile.WithDBListener(dr.mgr),
		evtfile.WithReaderLogger(dr.logger))
	if !dr.fr.Init() {
		dr.fail(fmt.Errorf("open %s: %s: %w", dr.files[i], dr.fr.BadReason(), dr.fr.Err()))
		return
	}
	dr.logger.WithField("file", filepath.Base(dr.files[i])).Info("griff opened file")
}

// GoToFirstEvent rewinds to the first event of the first file and resets
// the loop counters.
func (dr *DataReader) GoToFirstEvent() bool {
	dr.loops = dr.loopsOrig
	dr.loopStarted = false
	dr.loopCount = 0
	dr.err = nil
	dr.initFile(0)
	if dr.err != nil {
		return false
	}
	if dr.fr.EventActive() {
		return dr.beginEvent()
	}

	return dr.goToNextFileWithEvents()
}

// GoToNextFile skips the rest of the current file.
func (dr *DataReader) GoToNextFile() bool {
	return dr.goToNextFileWithEvents()
}

// goToNextFileWithEvents advances through files until one has an event.
// A full cycle over the inputs without events ends the iteration even when
// looping forever.
func (dr *DataReader) goToNextFileWithEvents() bool {
	for tries := 0; tries <= len(dr.files); tries++ {
		if dr.goToNextFile() {
			return true
		}
		if dr.err != nil || dr.fileIdx == len(dr.files) {
			return false
		}
	}

	return false
}

func (dr *DataReader) goToNextFile() bool {
	if dr.fileIdx == len(dr.files) {
		return false
	}
	dr.clearEvent()

	dr.fileIdx++
	if dr.fileIdx == len(dr.files) {
		switch {
		case dr.loops == 0:
			dr.fileIdx = 0
		case dr.loops > 1:
			dr.loops--
			dr.fileIdx = 0
		}
	}
	if dr.fileIdx == len(dr.files) {
		return false
	}
	dr.initFile(dr.fileIdx)
	if dr.err != nil {
		return false
	}
	if dr.fr.EventActive() {
		return dr.beginEvent()
	}

	return false
}

// GoToNextEvent advances one event, moving to the next file as needed.
func (dr *DataReader) GoToNextEvent() bool {
	if dr.err != nil || dr.fr == nil || dr.fileIdx == len(dr.files) {
		return false
	}
	dr.clearEvent()
	if dr.fr.GoToNextEvent() {
		return dr.beginEvent()
	}
	if dr.fr.Bad() {
		dr.fail(fmt.Errorf("read %s: %s: %w", dr.fr.Filename(), dr.fr.BadReason(), dr.fr.Err()))
		return false
	}

	return dr.goToNextFileWithEvents()
}

// SkipEvents advances n events.
func (dr *DataReader) SkipEvents(n int) bool {
	for i := 0; i < n; i++ {
		if !dr.GoToNextEvent() {
			return false
		}
	}

	return dr.active
}

// LoopEvents combines the event check with advancing:
//
//	for dr.LoopEvents() {
//		// use dr
//	}
//
// The first call reports the event the reader is positioned at, later calls
// advance. GoToFirstEvent restarts the loop.
func (dr *DataReader) LoopEvents() bool {
	var ok bool
	if !dr.loopStarted {
		dr.loopStarted = true
		ok = dr.active
	} else {
		ok = dr.GoToNextEvent()
	}
	if ok {
		dr.loopCount++
	}

	return ok
}

// LoopCount returns the number of events LoopEvents reported since the last
// GoToFirstEvent.
func (dr *DataReader) LoopCount() int { return dr.loopCount }

// SeekEventByIndexInCurrentFile positions at the event with index idx of the
// open file.
func (dr *DataReader) SeekEventByIndexInCurrentFile(idx int) bool {
	if dr.fr == nil || !dr.fr.OK() {
		return false
	}
	dr.clearEvent()
	if !dr.fr.SeekEventByIndex(idx) {
		return false
	}

	return dr.beginEvent()
}

// EventIndexInCurrentFile returns the index of the current event in its
// file, or -1.
func (dr *DataReader) EventIndexInCurrentFile() int {
	if !dr.active {
		return -1
	}

	return dr.fr.EventIndex()
}

// beginEvent loads the event the file reader points at, checks the setup
// and notifies callbacks.
func (dr *DataReader) beginEvent() bool {
	if err := dr.loadTracks(); err != nil {
		dr.clearEvent()
		dr.fail(fmt.Errorf("event %d of %s: %w", dr.fr.EventIndex(), dr.fr.Filename(), err))

		return false
	}
	if !dr.allowSetupChange {
		if err := dr.checkSetupConsistency(); err != nil {
			dr.clearEvent()
			dr.fail(err)

			return false
		}
	}
	dr.active = true
	dr.eventsProcessed++
	for _, cb := range dr.beginCBs {
		cb.BeginEvent(dr)
	}

	return true
}

// clearEvent notifies end callbacks and drops the data of the current event.
func (dr *DataReader) clearEvent() {
	if dr.active {
		for _, cb := range dr.endCBs {
			cb.EndEvent(dr)
		}
	}
	dr.active = false
	clear(dr.tracks)
	dr.tracks = dr.tracks[:0]
	clear(dr.segments)
	dr.segments = dr.segments[:0]
	dr.daughters = dr.daughters[:0]
	dr.nPrimary = 0
	dr.byID = nil
	dr.full = nil
	dr.fullLoaded = false
	dr.stepSlab.Release()
}

func (dr *DataReader) loadTracks() error {
	brief, err := dr.fr.BriefData()
	if err != nil {
		return err
	}
	r := encoding.NewReader(brief)
	dr.seed = r.ReadUint64()
	dr.mdIdx = r.ReadUint32()
	n := r.ReadUint32()
	dr.mode = Mode(r.ReadUint32())
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: track header", err)
	}
	if !dr.mode.Valid() {
		return fmt.Errorf("%w: %s", errs.ErrInvalidMode, dr.mode)
	}
	if int(n) > r.Remaining()/SizePerTrack {
		return fmt.Errorf("%w: %d tracks in %d bytes", errs.ErrInvalidRecord, n, r.Remaining())
	}

	dr.contiguous = true
	nSeg := 0
	for i := 0; i < int(n); i++ {
		t := trackData{
			id:          r.ReadInt32(),
			pdgCode:     r.ReadInt32(),
			weight:      r.ReadFloat32(),
			creatorProc: r.ReadUint32(),
			parentID:    r.ReadInt32(),
			nSeg:        int(r.ReadUint32()),
		}
		nd := int(r.ReadUint32())
		if r.Err() != nil || nd > r.Remaining()/SizePerDaughter || t.nSeg == 0 {
			return fmt.Errorf("%w: track record %d", errs.ErrInvalidRecord, i)
		}
		start := len(dr.daughters)
		for j := 0; j < nd; j++ {
			dr.daughters = append(dr.daughters, r.ReadInt32())
		}
		t.daughters = dr.daughters[start:len(dr.daughters):len(dr.daughters)]
		t.firstSeg = nSeg
		nSeg += t.nSeg
		if t.id != int32(i+1) { //nolint:gosec
			dr.contiguous = false
		}
		dr.tracks = append(dr.tracks, t)
	}
	for dr.nPrimary < len(dr.tracks) && dr.tracks[dr.nPrimary].parentID == 0 {
		dr.nPrimary++
	}
	if nSeg > r.Remaining()/SizePerSegment {
		return fmt.Errorf("%w: %d segments in %d bytes", errs.ErrInvalidRecord, nSeg, r.Remaining())
	}

	dr.segments = slices.Grow(dr.segments, nSeg)
	for ti := range dr.tracks {
		t := &dr.tracks[ti]
		for j := 0; j < t.nSeg; j++ {
			s := segmentData{
				track:      ti,
				startTime:  r.ReadFloat64(),
				startEKin:  r.ReadFloat64(),
				volinfo:    r.ReadUint32(),
				stepIdx:    r.ReadInt32(),
				eDep:       r.ReadFloat32(),
				eDepNonIon: r.ReadFloat32(),
			}
			if j == t.nSeg-1 || s.volinfo&volInfoNextFiltered != 0 {
				s.endTime = r.ReadFloat64()
				s.endEKin = r.ReadFloat64()
			}
			dr.segments = append(dr.segments, s)
		}
		for j := t.firstSeg; j < t.firstSeg+t.nSeg-1; j++ {
			s := &dr.segments[j]
			if s.volinfo&volInfoNextFiltered == 0 {
				s.endTime = dr.segments[j+1].startTime
				s.endEKin = dr.segments[j+1].startEKin
			}
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: segment records", err)
	}
	if r.Remaining() != 0 {
		return fmt.Errorf("%w: %d trailing bytes in track data", errs.ErrInvalidRecord, r.Remaining())
	}

	return nil
}

// fullData returns the uncompressed step data of the event.
func (dr *DataReader) fullData() ([]byte, error) {
	if !dr.fullLoaded {
		full, err := dr.fr.FullData()
		if err != nil {
			return nil, err
		}
		dr.full = full
		dr.fullLoaded = true
	}

	return dr.full, nil
}

// setupSteps locates the stored steps of segment i.
func (dr *DataReader) setupSteps(i int) []stepData {
	s := &dr.segments[i]
	if s.stepsReady {
		return s.steps
	}
	s.stepsReady = true
	if s.stepIdx < 0 {
		return nil
	}
	full, err := dr.fullData()
	if err != nil {
		dr.logger.WithError(err).Warn("griff step data unavailable")
		return nil
	}
	off := int(s.stepIdx)
	if off+SizeStepHeader > len(full) {
		dr.logger.WithField("offset", off).Warn("griff step index out of range")
		return nil
	}
	n := int(encoding.Uint32At(full, off+4))
	first := off + SizeStepHeader
	if n == 0 || first+n*SizeStep+SizeStepPoint > len(full) {
		dr.logger.WithField("steps", n).Warn("griff step block truncated")
		return nil
	}
	s.steps = dr.stepSlab.Alloc(n)
	for k := range s.steps {
		s.steps[k].off = first + k*SizeStep
	}

	return s.steps
}

// RunNumber returns the run number of the current event.
func (dr *DataReader) RunNumber() uint32 {
	if dr.fr == nil {
		return 0
	}

	return dr.fr.RunNumber()
}

// EventNumber returns the event number of the current event.
func (dr *DataReader) EventNumber() uint32 {
	if dr.fr == nil {
		return 0
	}

	return dr.fr.EventNumber()
}

// EventCheckSum returns the stored checksum of the current event.
func (dr *DataReader) EventCheckSum() uint32 {
	if !dr.active {
		return 0
	}

	return dr.fr.EventCheckSum()
}

// VerifyEventDataIntegrity recomputes the checksum of the current event.
func (dr *DataReader) VerifyEventDataIntegrity() bool {
	return dr.active && dr.fr.VerifyEventDataIntegrity()
}

// Seed returns the random seed the current event was simulated with.
func (dr *DataReader) Seed() uint64 { return dr.seed }

// MetaDataIdx returns the metadata table index of the current event.
func (dr *DataReader) MetaDataIdx() uint32 { return dr.mdIdx }

// Mode returns the storage mode of the current event.
func (dr *DataReader) Mode() Mode { return dr.mode }

// NTracks returns the number of tracks in the current event.
func (dr *DataReader) NTracks() int { return len(dr.tracks) }

// NPrimaryTracks returns the number of primary tracks, which come first.
func (dr *DataReader) NPrimaryTracks() int { return dr.nPrimary }

// Track returns track i of the current event. It panics when i is out of
// range.
func (dr *DataReader) Track(i int) Track {
	if i < 0 || i >= len(dr.tracks) {
		panic(fmt.Sprintf("griff: track index %d out of range [0,%d)", i, len(dr.tracks)))
	}

	return Track{dr: dr, idx: i}
}

// PrimaryTrack returns primary track i.
func (dr *DataReader) PrimaryTrack(i int) Track {
	if i < 0 || i >= dr.nPrimary {
		panic(fmt.Sprintf("griff: primary track index %d out of range [0,%d)", i, dr.nPrimary))
	}

	return Track{dr: dr, idx: i}
}

// Tracks returns all tracks of the current event.
func (dr *DataReader) Tracks() []Track {
	out := make([]Track, len(dr.tracks))
	for i := range out {
		out[i] = Track{dr: dr, idx: i}
	}

	return out
}

func (dr *DataReader) trackIndex(id int32) (int, bool) {
	if dr.contiguous {
		if id < 1 || int(id) > len(dr.tracks) {
			return 0, false
		}

		return int(id) - 1, true
	}
	if dr.byID == nil {
		dr.byID = make(map[int32]int, len(dr.tracks))
		for i := range dr.tracks {
			dr.byID[dr.tracks[i].id] = i
		}
	}
	i, ok := dr.byID[id]

	return i, ok
}

// HasTrackID reports whether the current event has a track with id.
func (dr *DataReader) HasTrackID(id int32) bool {
	_, ok := dr.trackIndex(id)
	return ok
}

// TrackByID returns the track with id.
func (dr *DataReader) TrackByID(id int32) (Track, bool) {
	i, ok := dr.trackIndex(id)
	if !ok {
		return Track{}, false
	}

	return Track{dr: dr, idx: i}, true
}

func (dr *DataReader) metaDataMap(mdIdx uint32) (map[string]string, error) {
	e, ok := dr.metaData.Entry(mdIdx)
	if !ok {
		return nil, fmt.Errorf("%w: metadata index %d", errs.ErrInvalidIndex, mdIdx)
	}
	m := make(map[string]string, len(e.Pairs))
	for _, p := range e.Pairs {
		m[dr.metaDataStrings.StringOr(p.KeyIdx, "")] = dr.metaDataStrings.StringOr(p.ValueIdx, "")
	}

	return m, nil
}

// Setup returns the setup of the current event, or nil when no event is
// active. Events sharing a setup return the same instance.
func (dr *DataReader) Setup() *Setup {
	if !dr.active {
		return nil
	}
	if !dr.SetupChanged() {
		return dr.setup
	}
	key := metaKey{dr.mdIdx, dr.fileIdx}
	s, err := dr.setupFor(key)
	if err != nil {
		dr.logger.WithError(err).Warn("griff setup unavailable")
		s = newSetup(map[string]string{})
	}
	dr.setup = s
	dr.lastAccessed = key
	dr.accessed = true

	return dr.setup
}

// setupFor returns the cached setup of a metadata entry, building it on
// first use.
func (dr *DataReader) setupFor(key metaKey) (*Setup, error) {
	if s, ok := dr.setups[key]; ok {
		return s, nil
	}
	m, err := dr.metaDataMap(key.mdIdx)
	if err != nil {
		return nil, err
	}
	s := newSetup(m)
	dr.setups[key] = s

	return s, nil
}

// SetupChanged reports whether Setup would return a different instance than
// at its previous call.
func (dr *DataReader) SetupChanged() bool {
	if !dr.active {
		return false
	}
	if dr.accessed && dr.lastAccessed == (metaKey{dr.mdIdx, dr.fileIdx}) {
		return false
	}

	return dr.setupChangedFullCheck()
}

func (dr *DataReader) setupChangedFullCheck() bool {
	if !dr.accessed {
		return true
	}
	if !dr.allowSetupChange {
		// the consistency check guarantees identical content
		dr.lastAccessed = metaKey{dr.mdIdx, dr.fileIdx}
		return false
	}
	key := metaKey{dr.mdIdx, dr.fileIdx}
	s, err := dr.setupFor(key)
	if err != nil || !s.Equal(dr.setup) {
		dr.accessed = false
		return true
	}
	dr.lastAccessed = key

	return false
}

// CheckSetupConsistency compares the setup of the current event with the
// first one seen. Within a file a different metadata index is a change;
// across files the content is compared.
func (dr *DataReader) CheckSetupConsistency() error {
	if !dr.active {
		return errs.ErrNoActiveEvent
	}

	return dr.checkSetupConsistency()
}

func (dr *DataReader) checkSetupConsistency() error {
	cur := metaKey{dr.mdIdx, dr.fileIdx}
	if !dr.haveCached {
		m, err := dr.metaDataMap(dr.mdIdx)
		if err != nil {
			return err
		}
		dr.cachedMeta, dr.cachedMap, dr.haveCached = cur, m, true

		return nil
	}

	ok := true
	if cur.fileIdx != dr.cachedMeta.fileIdx {
		m, err := dr.metaDataMap(dr.mdIdx)
		if err != nil {
			return err
		}
		if !newSetup(m).Equal(newSetup(dr.cachedMap)) {
			ok = false
		} else {
			dr.cachedMeta = cur
		}
	} else if cur.mdIdx != dr.cachedMeta.mdIdx {
		ok = false
	}
	if !ok {
		return fmt.Errorf("%w: event %d/%d of %s uses a different setup; allow setup changes to read it",
			errs.ErrSetupChanged, dr.RunNumber(), dr.EventNumber(), dr.CurrentFile())
	}

	return nil
}

// Close closes the open file.
func (dr *DataReader) Close() error {
	dr.clearEvent()
	if dr.fr == nil {
		return nil
	}
	err := dr.fr.Close()
	dr.fr = nil
	dr.fileIdx = len(dr.files)

	return err
}
