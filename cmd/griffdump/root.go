package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arloliu/griff/evtfile"
	"github.com/arloliu/griff/griff"
	"github.com/arloliu/griff/internal/config"
)

var errDumpFailed = errors.New("dump failed")

type rootOptions struct {
	logLevel   string
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "griffdump",
		Short:         "Inspect Griff event files",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log", "", "Log level (trace, debug, info, warn, error, fatal, panic)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file")

	root.AddCommand(
		newInfoCmd(),
		newSectionCmd("db", "Dump the raw DB section of an event", evtfile.DumpFileEventDBSection),
		newSectionCmd("brief", "Dump the raw track data of an event", evtfile.DumpFileEventBriefDataSection),
		newSectionCmd("full", "Dump the raw uncompressed step data of an event", evtfile.DumpFileEventFullDataSection),
		newEventsCmd(opts),
		newSetupCmd(opts),
		newSummaryCmd(opts),
	)

	return root
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	o.cfg = config.Default()
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if o.logLevel != "" {
		o.cfg.LogLevel = o.logLevel
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	logrus.SetLevel(o.cfg.Level())
	logrus.SetOutput(cmd.ErrOrStderr())

	return nil
}

func (o *rootOptions) readerOptions() []griff.ReaderOption {
	opts := []griff.ReaderOption{griff.WithLoopCount(o.cfg.LoopCount)}
	if o.cfg.AllowSetupChange {
		opts = append(opts, griff.WithAllowSetupChange())
	}

	return opts
}

func newInfoCmd() *cobra.Command {
	var brief, uncompressed bool
	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "List the events of a file with their section sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !evtfile.DumpFileInfo(cmd.OutOrStdout(), griff.Format, args[0], brief, uncompressed) {
				return fmt.Errorf("%w: %s", errDumpFailed, args[0])
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&brief, "brief", false, "Only print the summary")
	cmd.Flags().BoolVar(&uncompressed, "uncompressed", false, "Report uncompressed step data sizes")

	return cmd
}

type sectionDumper func(out, errOut io.Writer, f evtfile.Format, filename string, evtIndex int) bool

func newSectionCmd(name, short string, dump sectionDumper) *cobra.Command {
	return &cobra.Command{
		Use:   name + " FILE INDEX",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil || idx < 0 {
				return fmt.Errorf("invalid event index %q", args[1])
			}
			if !dump(cmd.OutOrStdout(), cmd.ErrOrStderr(), griff.Format, args[0], idx) {
				return fmt.Errorf("%w: %s event %d", errDumpFailed, args[0], idx)
			}

			return nil
		},
	}
}

func newEventsCmd(opts *rootOptions) *cobra.Command {
	var steps bool
	var limit int
	cmd := &cobra.Command{
		Use:   "events FILE...",
		Short: "Print the tracks and segments of every event",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("limit") {
				opts.cfg.MaxEvents = limit
			}
			dr, err := griff.NewDataReader(args, opts.readerOptions()...)
			if err != nil {
				return err
			}
			defer dr.Close()

			verbosity := griff.DumpSegments
			if steps {
				verbosity = griff.DumpSteps
			}
			out := cmd.OutOrStdout()
			for dr.LoopEvents() {
				if opts.cfg.VerifyIntegrity && !dr.VerifyEventDataIntegrity() {
					return fmt.Errorf("%w: event %d/%d of %s fails the integrity check",
						errDumpFailed, dr.RunNumber(), dr.EventNumber(), dr.CurrentFile())
				}
				griff.DumpEvent(out, dr, verbosity)
				if opts.cfg.MaxEvents > 0 && dr.LoopCount() >= opts.cfg.MaxEvents {
					break
				}
			}
			logrus.WithField("events", dr.LoopCount()).Debug("griffdump done")

			return dr.Err()
		},
	}
	cmd.Flags().BoolVar(&steps, "steps", false, "Include the stored steps")
	cmd.Flags().IntVar(&limit, "limit", 0, "Stop after this many events (0 = all)")

	return cmd
}

func newSetupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "setup FILE...",
		Short: "Print every distinct setup found in the files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts := append(opts.readerOptions(), griff.WithAllowSetupChange(), griff.WithLoopCount(1))
			dr, err := griff.NewDataReader(args, ropts...)
			if err != nil {
				return err
			}
			defer dr.Close()

			for dr.LoopEvents() {
				if dr.SetupChanged() {
					dr.Setup().Dump(cmd.OutOrStdout(), "")
				}
			}

			return dr.Err()
		},
	}
}
