package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/download"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download a file over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := download.DefaultURL
		if len(args) == 1 {
			url = args[0]
		}
		dest, _ := cmd.Flags().GetString("output")

		return run(cmd, "download", func(ctx context.Context) (string, error) {
			res, err := download.New(nil).Download(ctx, url, dest)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error downloading the file: %v\n", err)
				return "", reported(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "File downloaded successfully and saved as '%s'\n", res.Path)
			return res.Path, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
	downloadCmd.Flags().StringP("output", "o", "", "Destination file (defaults to the last segment of the URL)")
}
