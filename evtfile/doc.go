// Package evtfile implements the EvtFile container: an append-only sequence of
// events, each carrying a DB (shared reference data), a Brief and a Full
// section plus a progressive checksum.
//
// A Format descriptor couples the container to a concrete data format such
// as Griff: it supplies the magic word, the file extension, display names of
// the two payload sections and the codec of the Full section.
//
// Writing:
//
//	fw, err := evtfile.NewFileWriter(myFormat, "out")
//	if err != nil {
//	    return err
//	}
//	defer fw.Close()
//	fw.WriteDataBriefSection(brief)
//	fw.WriteDataFullSection(full)
//	if err := fw.FlushEventToDisk(run, evt); err != nil {
//	    return err
//	}
//
// Reading:
//
//	fr := evtfile.NewFileReader(myFormat, "out.myext")
//	if !fr.Init() {
//	    return fmt.Errorf("%s: %s", fr.Filename(), fr.BadReason())
//	}
//	for ok := fr.EventActive(); ok; ok = fr.GoToNextEvent() {
//	    brief, err := fr.BriefData()
//	    ...
//	}
//
// Reference data is deduplicated across events by DBStringsWriter and
// DBEntryWriter, which register themselves as pre-flush hooks and emit only
// entries added since the previous event. Readers register the matching
// DBStringsReader and DBEntryReader with a DBSubSectReaderMgr, which the
// FileReader feeds with the DB bytes of every event the first time it is
// parsed.
//
// Readers and writers are not safe for concurrent use.
package evtfile
