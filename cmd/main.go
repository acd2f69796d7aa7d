package main

import (
	"fmt"
	logger "log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "translocrt",
	Short:        "TransLoc GTFS-realtime adapter",
	Long:         "Serves GTFS-realtime feeds derived from TransLoc live agency data",
	SilenceUsage: true,
}

var log = logger.New(os.Stdout, "TRANSLOCRT : ", logger.LstdFlags|logger.Lmicroseconds)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(feedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
