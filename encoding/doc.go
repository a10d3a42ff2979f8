// Package encoding provides the ByteStream primitives of the EvtFile format:
// typed little-endian reads and writes of plain values, u16-length strings and
// u16-count string vectors over a byte buffer.
//
// Writers append to a pooled buffer:
//
//	w := encoding.NewWriter(buf)
//	w.WriteUint32(nTracks)
//	w.WriteString("World")
//
// Readers walk a byte slice with a cursor. A read past the end yields zero
// values and records errs.ErrUnexpectedEOF, so decoders check Err once per
// record instead of after every field:
//
//	r := encoding.NewReader(data)
//	depth := r.ReadUint8()
//	name := r.ReadString()
//	if err := r.Err(); err != nil {
//	    return err
//	}
package encoding
