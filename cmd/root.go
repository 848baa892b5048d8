package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ValentinKolb/mongoBridge/cmd/db"
	"github.com/ValentinKolb/mongoBridge/cmd/util"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "mongobridge",
		Short: "asynchronous database bridge",
		Long: fmt.Sprintf(`mongoBridge (v%s)

An asynchronous client-side bridge over a synchronous database driver,
written in Go. Blocking driver calls run on a dedicated worker context
so that callers never block.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of mongoBridge",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mongoBridge v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(db.DBCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use for documents and data files (json, yaml, cbor)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
