package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/artwork"
	"github.com/spf13/cobra"
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw a yellow circle over a white rule and save it as PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := artwork.DefaultSpec()
		spec.Width, _ = cmd.Flags().GetInt("width")
		spec.Height, _ = cmd.Flags().GetInt("height")
		spec.Radius, _ = cmd.Flags().GetInt("radius")
		output, _ := cmd.Flags().GetString("output")

		return run(cmd, "draw", func(_ context.Context) (string, error) {
			if err := artwork.Save(spec, output); err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\nSaved to %s\n", artwork.Title, output)
			return output, nil
		})
	},
}

func init() {
	rootCmd.AddCommand(drawCmd)
	def := artwork.DefaultSpec()
	drawCmd.Flags().Int("width", def.Width, "Canvas width in pixels")
	drawCmd.Flags().Int("height", def.Height, "Canvas height in pixels")
	drawCmd.Flags().Int("radius", def.Radius, "Circle radius in pixels")
	drawCmd.Flags().StringP("output", "o", "digital_art.png", "Output PNG file")
}
