package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/export"
	"github.com/kottster/adminkit/internal/tabledata"
	"github.com/kottster/adminkit/internal/util"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [data-source] [table]",
	Short: "Export every record of a table as CSV or JSON lines",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		log := newLogger(cmd)
		defer util.RecoverPanic(log)

		reg, err := loadRegistry(cmd)
		if err != nil {
			log.Error("error loading configuration: %s", err)
			os.Exit(1)
		}
		ds, ok := reg.DataSource(args[0])
		if !ok {
			log.Error("data source not found: %s", args[0])
			os.Exit(1)
		}

		ctx := cmd.Context()
		adapter, err := internal.NewAdapter(ctx, log, ds.Type, ds.URL, ds.SchemaName)
		if err != nil {
			log.Error("error starting adapter: %s", err)
			os.Exit(1)
		}
		defer adapter.Stop()

		schema, err := adapter.GetDatabaseSchema(ctx)
		if err != nil {
			log.Error("error introspecting schema: %s", err)
			os.Exit(1)
		}
		config, err := reg.TableConfig(args[0], args[1])
		if err != nil {
			log.Error("error resolving table configuration: %s", err)
			os.Exit(1)
		}
		data := tabledata.ResolveTableData(config, schema)
		if data.Schema == nil {
			log.Error("table not found: %s", args[1])
			os.Exit(1)
		}

		out := os.Stdout
		if filename := mustFlagString(cmd, "out", false); filename != "" {
			f, err := os.Create(filename)
			if err != nil {
				log.Error("error creating output file: %s", err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}

		format := export.Format(mustFlagString(cmd, "format", false))
		exporter := export.New(log)
		id, err := exporter.Run(ctx, adapter, data, format, out)
		if err != nil {
			log.Error("export failed: %s", err)
			os.Exit(1)
		}
		op, _ := exporter.Operation(id)
		color.Green("exported %d rows from %s", op.Rows, op.Table)
	},
}

func init() {
	exportCmd.Flags().String("format", string(export.FormatCSV), "output format: csv or json")
	exportCmd.Flags().String("out", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
