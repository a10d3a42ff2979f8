// Package section defines the fixed-size headers of an EvtFile container.
//
// File layout:
//
//	+-------------------+
//	| FileHeader (8 B)  |  u32 magic, i32 version
//	+-------------------+
//	| EventHeader (24B) |  u32 checksum, run, event, sizeDB, sizeBrief, sizeFull
//	| DB bytes          |
//	| Brief bytes       |
//	| Full bytes        |  on-disk size, possibly compressed
//	+-------------------+
//	| next event ...    |
//
// Every value is little-endian. Events are contiguous and carry no index, so
// a reader can only discover the next event by parsing the current header.
package section
