package cmd

import (
	"fmt"
	"os"

	"github.com/kottster/adminkit/internal/registry"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func mustFlagBool(cmd *cobra.Command, name string, required bool) bool {
	val, err := cmd.Flags().GetBool(name)
	if required && err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	return val
}

func mustFlagString(cmd *cobra.Command, name string, required bool) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		fmt.Printf("error: %s\n", err)
		os.Exit(1)
	}
	if required && val == "" {
		fmt.Printf("error: required flag --%s missing\n", name)
		os.Exit(1)
	}
	return val
}

func newLogger(cmd *cobra.Command) logger.Logger {
	if mustFlagBool(cmd, "verbose", false) {
		return logger.NewConsoleLogger(logger.LevelTrace)
	}
	return logger.NewConsoleLogger(logger.LevelInfo)
}

// loadRegistry reads the page and data source documents below the configured
// directory.
func loadRegistry(cmd *cobra.Command) (*registry.Registry, error) {
	dir := viper.GetString("config-dir")
	if flagDir := mustFlagString(cmd, "config-dir", false); flagDir != "" {
		dir = flagDir
	}
	if dir == "" {
		dir = "."
	}
	return registry.NewFileRegistry(dir)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "adminkit",
	Short: "Admin panel backend core for SQL databases",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "directory holding page and data source documents")
	rootCmd.PersistentFlags().Bool("verbose", false, "turn on verbose logging")
	viper.SetEnvPrefix("ADMINKIT")
	viper.AutomaticEnv()
	viper.BindPFlag("config-dir", rootCmd.PersistentFlags().Lookup("config-dir"))
}
