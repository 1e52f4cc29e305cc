package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [data-source]",
	Short: "Introspect a data source and print its discovered schema",
	Args:  cobra.ExactArgs(1),
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
		printSchema(schema)
	},
}

func printSchema(schema *internal.DatabaseSchema) {
	tableColor := color.New(color.FgCyan, color.Bold)
	typeColor := color.New(color.FgHiBlack)
	markerColor := color.New(color.FgYellow)

	for _, table := range schema.Tables {
		tableColor.Println(table.Name)
		for _, col := range table.Columns {
			var markers []string
			if col.PrimaryKey != nil {
				if col.PrimaryKey.AutoIncrement {
					markers = append(markers, "pk auto")
				} else {
					markers = append(markers, "pk")
				}
			}
			if col.ForeignKey != nil {
				markers = append(markers, fmt.Sprintf("fk -> %s.%s", col.ForeignKey.Table, col.ForeignKey.Column))
			}
			if col.EnumValues != "" {
				markers = append(markers, "enum("+col.EnumValues+")")
			}
			if col.Nullable {
				markers = append(markers, "null")
			}
			line := fmt.Sprintf("  %-30s %s", col.Name, typeColor.Sprint(col.FullType))
			if len(markers) > 0 {
				line += "  " + markerColor.Sprint(strings.Join(markers, ", "))
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
	fmt.Printf("%d tables\n", len(schema.Tables))
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
