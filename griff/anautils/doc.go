// Package anautils provides filters and filtered iterators over the tracks,
// segments and steps of the current event of a griff.DataReader.
//
// Iterators reset themselves whenever the reader enters a new event:
//
//	it := anautils.NewSegmentIterator(dr)
//	it.AddTrackFilter(anautils.NewPDGCodeFilter(2112))
//	it.AddSegmentFilter(anautils.VolumeFilter{Name: "Detector"})
//	for dr.LoopEvents() {
//		for seg, ok := it.Next(); ok; seg, ok = it.Next() {
//			// use seg
//		}
//	}
package anautils
