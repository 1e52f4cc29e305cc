package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the page and data source documents in the config directory",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)

		reg, err := loadRegistry(cmd)
		if err != nil {
			color.Red("invalid configuration: %s", err)
			os.Exit(1)
		}

		var failed bool
		dialects := make(map[string]bool)
		for _, dialect := range internal.AdapterDialects() {
			dialects[dialect] = true
		}
		for _, ds := range reg.DataSources() {
			if !dialects[ds.Type] {
				color.Red("data source %s: no adapter registered for dialect %s", ds.Name, ds.Type)
				failed = true
				continue
			}
			color.Green("data source %s (%s) ok", ds.Name, ds.Type)
		}
		if failed {
			os.Exit(1)
		}
		color.Green("configuration is valid")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
