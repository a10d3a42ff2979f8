package main

import (
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/arloliu/griff/griff"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary FILE...",
		Short: "Print one table row per event with track and segment counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dr, err := griff.NewDataReader(args, opts.readerOptions()...)
			if err != nil {
				return err
			}
			defer dr.Close()

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"file", "index", "run", "event", "mode", "tracks", "primaries", "segments", "integrity"})
			var totalTracks, totalSegments int
			for dr.LoopEvents() {
				segments := 0
				for i := 0; i < dr.NTracks(); i++ {
					segments += dr.Track(i).NSegments()
				}
				integrity := "ok"
				if !dr.VerifyEventDataIntegrity() {
					integrity = "FAILED"
				}
				t.AppendRow(table.Row{
					filepath.Base(dr.CurrentFile()), dr.EventIndexInCurrentFile(),
					dr.RunNumber(), dr.EventNumber(), dr.Mode().String(),
					dr.NTracks(), dr.NPrimaryTracks(), segments, integrity,
				})
				totalTracks += dr.NTracks()
				totalSegments += segments
				if opts.cfg.MaxEvents > 0 && dr.LoopCount() >= opts.cfg.MaxEvents {
					break
				}
			}
			t.AppendFooter(table.Row{"total", dr.LoopCount(), "", "", "", totalTracks, "", totalSegments, ""})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 5, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
				{Number: 9, Align: text.AlignCenter, AlignHeader: text.AlignCenter},
			})
			t.Render()

			return dr.Err()
		},
	}
}
