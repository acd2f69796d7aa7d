package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	"github.com/opentransit/translocrt"
)

var (
	feedWorkaround bool
	feedAsText     bool
)

var feedCmd = &cobra.Command{
	Use:   "feed <agency_id> <agency_code>",
	Short: "Fetch one realtime feed and write it to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		agencyID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("agency_id must be an unsigned integer: %w", err)
		}

		loader, err := translocrt.NewLoader(log)
		if err != nil {
			return fmt.Errorf("creating loader: %w", err)
		}

		feed, err := loader.BuildFeed(cmd.Context(), agencyID, args[1], feedWorkaround)
		if err != nil {
			return fmt.Errorf("building feed: %w", err)
		}

		if feedAsText {
			fmt.Println(prototext.MarshalOptions{Multiline: true}.Format(feed))
			return nil
		}

		body, err := proto.Marshal(feed)
		if err != nil {
			return fmt.Errorf("marshaling feed: %w", err)
		}
		_, err = os.Stdout.Write(body)
		return err
	},
}

func init() {
	feedCmd.Flags().BoolVarP(&feedWorkaround, "workaround", "", false, "encode frequency trip start times into trip_id")
	feedCmd.Flags().BoolVarP(&feedAsText, "text", "", false, "write the feed as protobuf text format")
}
