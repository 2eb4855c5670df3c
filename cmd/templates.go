package cmd

import (
	"fmt"

	"github.com/maxvaer/weakscan/internal/config"
	"github.com/maxvaer/weakscan/internal/pattern"
	"github.com/spf13/cobra"
)

var templatesDir string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the gf templates that would be loaded",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr(), false, false, true)
		defer func() { _ = logger.Sync() }()

		set := pattern.Load(templatesDir, pattern.WithLogger(logger))
		w := cmd.OutOrStdout()
		if set.Len() == 0 {
			fmt.Fprintf(w, "No templates found in %s\n", templatesDir)
			return nil
		}
		for _, t := range set.Templates() {
			fmt.Fprintf(w, "%-24s %d patterns\n", t.Name, len(t.Patterns))
		}
		fmt.Fprintf(w, "\n%d templates, %d patterns\n", set.Len(), set.PatternCount())
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	templatesCmd.Flags().StringVar(&templatesDir, "gf", config.DefaultTemplatesDir, "Directory of gf pattern templates")
}
