package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
	"github.com/spf13/cobra"

	_ "github.com/kottster/adminkit/internal/adapters/mysql"
	_ "github.com/kottster/adminkit/internal/adapters/postgres"
	_ "github.com/kottster/adminkit/internal/adapters/sqlite"
	_ "github.com/kottster/adminkit/internal/adapters/sqlserver"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connectivity to a database without saving anything",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)

		dialect := mustFlagString(cmd, "type", true)
		url := mustFlagString(cmd, "url", true)

		ctx := cmd.Context()
		adapter, err := internal.NewAdapter(ctx, log, dialect, url, mustFlagString(cmd, "schema", false))
		if err != nil {
			color.Red("connection failed: %s", err)
			os.Exit(1)
		}
		adapter.Stop()
		color.Green("connection ok")
	},
}

func init() {
	testCmd.Flags().String("type", "", "the adapter dialect (postgres, mysql, sqlserver, sqlite)")
	testCmd.Flags().String("url", "", "the database connection url")
	testCmd.Flags().String("schema", "", "the schema name to introspect")
	rootCmd.AddCommand(testCmd)
}
