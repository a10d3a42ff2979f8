package evtfile

import (
	"fmt"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
)

// SubSectionReader consumes the payload of one DB subsection id.
type SubSectionReader interface {
	Load(r *encoding.Reader) error
	ClearInfo()
}

// DBSubSectReaderMgr splits DB sections into subsections and dispatches each
// to the reader registered for its id.
type DBSubSectReaderMgr struct {
	readers map[uint16]SubSectionReader
	order   []uint16
}

var _ DBListener = (*DBSubSectReaderMgr)(nil)

func NewDBSubSectReaderMgr() *DBSubSectReaderMgr {
	return &DBSubSectReaderMgr{readers: make(map[uint16]SubSectionReader)}
}

// AddSubSection registers r for id. Registering an id twice panics.
func (m *DBSubSectReaderMgr) AddSubSection(id uint16, r SubSectionReader) {
	if _, dup := m.readers[id]; dup {
		panic(fmt.Sprintf("evtfile: subsection id %d registered twice", id))
	}
	m.readers[id] = r
	m.order = append(m.order, id)
}

// NewInfoAvailable dispatches every subsection contained in data.
//
// An id without a registered reader means reader and writer disagree on the
// format and panics.
func (m *DBSubSectReaderMgr) NewInfoAvailable(data []byte) error {
	in := encoding.NewReader(data)
	for in.Remaining() > 0 {
		id := in.ReadUint16()
		if err := in.Err(); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidSubSection, err)
		}
		r, ok := m.readers[id]
		if !ok {
			panic(fmt.Sprintf("evtfile: unknown DB subsection id %d", id))
		}
		if err := r.Load(in); err != nil {
			return fmt.Errorf("%w: subsection %d: %w", errs.ErrInvalidSubSection, id, err)
		}
	}

	return nil
}

// ClearInfo forwards to every registered reader.
func (m *DBSubSectReaderMgr) ClearInfo() {
	for _, id := range m.order {
		m.readers[id].ClearInfo()
	}
}
