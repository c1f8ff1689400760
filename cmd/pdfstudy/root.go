package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pdfstudy",
		Short:         "Summarize, question and quiz yourself on a PDF",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "YAML configuration file")
	f.StringVar(&a.provider, "provider", "", "remote provider: huggingface|gemini|openai|off")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug|info|warn|error")
	f.BoolVar(&a.plainText, "text", false, "treat the input as a plain text file instead of a PDF")
	f.BoolVar(&a.clean, "clean", false, "normalise whitespace and join hyphenated line breaks")
	f.BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		infoCmd(a),
		keywordsCmd(a),
		summarizeCmd(a),
		keyPointsCmd(a),
		topicsCmd(a),
		askCmd(a),
		explainCmd(a),
		testCmd(a),
		translateCmd(a),
		reportCmd(a),
		languagesCmd(a),
	)
	return root
}
