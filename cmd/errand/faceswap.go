package main

import (
	"context"
	"fmt"

	"github.com/aretw0/errand/pkg/adapters/pigo"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/faceswap"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/spf13/cobra"
)

var faceswapCmd = &cobra.Command{
	Use:   "faceswap <photo1> <photo2>",
	Short: "Swap the first face found in each of two photos",
	Long: `Resizes both photos to 640x480, finds a face in each and pastes them back
crosswise. Faces are found with a pigo cascade file (--cascade) or given
directly as boxes (--box1 and --box2, "x,y,w,h").`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out1, _ := cmd.Flags().GetString("out1")
		out2, _ := cmd.Flags().GetString("out2")

		detector, err := faceDetector(cmd)
		if err != nil {
			return err
		}

		return run(cmd, "faceswap", func(_ context.Context) (string, error) {
			res, err := faceswap.SwapFiles(args[0], args[1], out1, out2, detector)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Faces swapped (%s <-> %s)\nSaved %s and %s\n", res.Box1, res.Box2, out1, out2)
			return out1 + ", " + out2, nil
		})
	},
}

func faceDetector(cmd *cobra.Command) (ports.FaceDetector, error) {
	raw1, _ := cmd.Flags().GetString("box1")
	raw2, _ := cmd.Flags().GetString("box2")
	if raw1 != "" || raw2 != "" {
		box1, err := domain.ParseBox(raw1)
		if err != nil {
			return nil, fmt.Errorf("--box1: %w", err)
		}
		box2, err := domain.ParseBox(raw2)
		if err != nil {
			return nil, fmt.Errorf("--box2: %w", err)
		}
		return faceswap.NewFixed(box1, box2), nil
	}

	cascade := orDefault(cmd, "cascade", app.cfg.FaceSwap.Cascade)
	if cascade == "" {
		return nil, &domain.MissingConfigError{Key: "cascade"}
	}
	return pigo.Load(cascade)
}

func init() {
	rootCmd.AddCommand(faceswapCmd)
	faceswapCmd.Flags().String("cascade", "", "pigo facefinder cascade file")
	faceswapCmd.Flags().String("box1", "", "Face box in the first photo, x,y,w,h")
	faceswapCmd.Flags().String("box2", "", "Face box in the second photo, x,y,w,h")
	faceswapCmd.Flags().String("out1", faceswap.DefaultOutput1, "Output for the first photo")
	faceswapCmd.Flags().String("out2", faceswap.DefaultOutput2, "Output for the second photo")
}
