// Package griff reads and writes Griff files, the event format of particle
// simulations: per event a list of tracks, each split into segments (one per
// traversed volume), each made of steps.
//
// Griff files are EvtFile containers. The Brief section holds tracks and
// segments, the Full section holds the zlib-compressed steps and the DB section
// carries the deduplicated reference data: volume paths, materials, element
// and isotope definitions, particle definitions, process names and the job
// metadata.
//
// DataReader iterates events over one or more files:
//
//	dr, err := griff.NewDataReader([]string{"sim_*.griff"})
//	if err != nil {
//	    return err
//	}
//	defer dr.Close()
//	for dr.LoopEvents() {
//	    for i := 0; i < dr.NTracks(); i++ {
//	        trk := dr.Track(i)
//	        fmt.Println(trk.ID(), trk.PDGName(), trk.StartEKin())
//	    }
//	}
//	if err := dr.Err(); err != nil {
//	    return err
//	}
//
// Track, Segment and Step are small handles into the reader's buffers for
// the current event. They are invalid once the reader moves to another event
// and must not be kept across navigation.
//
// Writer produces files from domain records and is used by producers, tools
// and tests.
package griff
