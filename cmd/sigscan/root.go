package main

import (
	"encoding/json"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	verbose bool
	json    bool
}

type app struct {
	flags globalFlags
	log   *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.New()}

	root := &cobra.Command{
		Use:           "sigscan",
		Short:         "Analyze recorded instrument captures",
		Long:          "Run waveform, quality, pattern and spectral analysis over time,value captures.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.log.SetOutput(cmd.ErrOrStderr())
			a.log.SetLevel(logrus.InfoLevel)
			if a.flags.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log debug diagnostics to stderr")
	root.PersistentFlags().BoolVar(&a.flags.json, "json", false, "print results as JSON")

	root.AddCommand(
		a.analyzeCmd(),
		a.spectrumCmd(),
		a.decimateCmd(),
		a.filterCmd(),
		a.windowsCmd(),
		a.generateCmd(),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
