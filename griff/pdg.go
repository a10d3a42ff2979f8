package griff

import (
	"fmt"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/evtfile"
)

const pdgBlockVersion = 0

// pdgWriter emits the definitions of PDG codes first used in an event.
type pdgWriter struct {
	defs    map[int32]ParticleDefinition
	known   map[int32]struct{}
	pending []int32
}

var _ evtfile.PreFlushCallback = (*pdgWriter)(nil)

func newPDGWriter() *pdgWriter {
	return &pdgWriter{
		defs:  make(map[int32]ParticleDefinition),
		known: make(map[int32]struct{}),
	}
}

func (w *pdgWriter) define(def ParticleDefinition) {
	w.defs[def.PDGCode] = def
}

func (w *pdgWriter) defined(code int32) bool {
	_, ok := w.defs[code]
	return ok
}

// register schedules the definition of code for the next flush unless it was
// already written.
func (w *pdgWriter) register(code int32) {
	if _, ok := w.known[code]; ok {
		return
	}
	w.known[code] = struct{}{}
	w.pending = append(w.pending, code)
}

func (w *pdgWriter) PreFlush(fw *evtfile.FileWriter) error {
	if len(w.pending) == 0 {
		return nil
	}
	db := fw.DBSection()
	db.WriteUint16(SubSectPDGCodes)
	db.WriteUint8(pdgBlockVersion)
	db.WriteUint32(uint32(len(w.pending))) //nolint:gosec
	for _, code := range w.pending {
		def := w.defs[code]
		def.Encode(db)
	}
	w.pending = w.pending[:0]

	return nil
}

// pdgReader collects particle definitions keyed by PDG code.
type pdgReader struct {
	defs map[int32]ParticleDefinition
}

var _ evtfile.SubSectionReader = (*pdgReader)(nil)

func newPDGReader() *pdgReader {
	return &pdgReader{defs: make(map[int32]ParticleDefinition)}
}

func (r *pdgReader) Load(in *encoding.Reader) error {
	if v := in.ReadUint8(); v != pdgBlockVersion && in.Err() == nil {
		return fmt.Errorf("%w: particle definitions version %d", errs.ErrUnsupportedTable, v)
	}
	n := in.ReadUint32()
	for i := uint32(0); i < n && in.Err() == nil; i++ {
		def := decodeParticleDefinition(in)
		if in.Err() != nil {
			break
		}
		if _, dup := r.defs[def.PDGCode]; dup {
			return fmt.Errorf("%w: duplicate definition of pdg code %d", errs.ErrInvalidSubSection, def.PDGCode)
		}
		r.defs[def.PDGCode] = def
	}

	return in.Err()
}

func (r *pdgReader) ClearInfo() { clear(r.defs) }

func (r *pdgReader) lookup(code int32) (ParticleDefinition, bool) {
	def, ok := r.defs[code]
	return def, ok
}
