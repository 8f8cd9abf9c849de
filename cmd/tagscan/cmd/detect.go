package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tagscan/tagscan/internal/config"
	"github.com/tagscan/tagscan/internal/detector"
	"github.com/tagscan/tagscan/internal/engine"
	"github.com/tagscan/tagscan/internal/imgload"
	"gopkg.in/yaml.v3"
)

// detectOutput is the per-file result document rendered by the detect
// command.
type detectOutput struct {
	File   string            `json:"file"   yaml:"file"`
	Family string            `json:"family" yaml:"family"`
	Width  int               `json:"width"  yaml:"width"`
	Height int               `json:"height" yaml:"height"`
	Count  int               `json:"count"  yaml:"count"`
	Tags   []detector.Record `json:"tags"   yaml:"tags"`
}

// detectCmd represents the detect command.
var detectCmd = &cobra.Command{
	Use:   "detect [images...]",
	Short: "Detect tags in image files",
	Long: `Detect AprilTag markers in one or more image files.

Images are converted to grayscale before detection. By default a single
persistent detector handle is reused across all inputs; --oneshot rebuilds
the detector per image instead, trading speed for isolation.

Supported formats: JPEG, PNG, BMP

Examples:
  tagscan detect frame.png
  tagscan detect *.png --family tag16h5 --format json
  tagscan detect frame.png --oneshot --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		oneshot, _ := cmd.Flags().GetBool("oneshot")

		opts := detector.Options{
			QuadDecimate: cfg.Detector.QuadDecimate,
			Threads:      cfg.Detector.Threads,
		}

		var d *detector.Detector
		if !oneshot {
			var err error
			d, err = detector.New(cfg.Detector.Family, opts)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close() }()
		}

		outputs := make([]detectOutput, 0, len(args))
		for _, path := range args {
			gray, meta, err := imgload.LoadGray(path)
			if err != nil {
				return err
			}
			img := engine.FromGray(gray)

			var res *detector.Results
			if oneshot {
				res, err = detector.DetectOnce(img, cfg.Detector.Family, opts)
			} else {
				res, err = d.Detect(img)
			}
			if err != nil {
				return fmt.Errorf("detect %s: %w", path, err)
			}

			out := detectOutput{
				File:   path,
				Family: cfg.Detector.Family,
				Width:  meta.Width,
				Height: meta.Height,
				Count:  res.Count(),
				Tags:   append([]detector.Record(nil), res.Records()...),
			}
			res.Release()
			outputs = append(outputs, out)
		}

		rendered, err := renderDetectOutputs(outputs, cfg.Output.Format)
		if err != nil {
			return err
		}
		return writeOutput(cmd, rendered, cfg.Output.File)
	},
}

// renderDetectOutputs formats results in the configured output format.
func renderDetectOutputs(outputs []detectOutput, format string) (string, error) {
	switch format {
	case config.FormatJSON:
		b, err := json.MarshalIndent(outputs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal results: %w", err)
		}
		return string(b) + "\n", nil
	case config.FormatYAML:
		b, err := yaml.Marshal(outputs)
		if err != nil {
			return "", fmt.Errorf("marshal results: %w", err)
		}
		return string(b), nil
	default:
		var sb strings.Builder
		for _, out := range outputs {
			fmt.Fprintf(&sb, "%s (%dx%d, %s): %d tag(s)\n", out.File, out.Width, out.Height, out.Family, out.Count)
			for _, tag := range out.Tags {
				fmt.Fprintf(&sb, "  id=%d hamming=%d margin=%.2f center=(%.1f, %.1f)\n",
					tag.ID, tag.Hamming, tag.DecisionMargin, tag.Center.X, tag.Center.Y)
			}
		}
		return sb.String(), nil
	}
}

// writeOutput sends rendered results to the configured file or stdout.
func writeOutput(cmd *cobra.Command, rendered, file string) error {
	if file == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), rendered)
		return err
	}
	if err := os.WriteFile(file, []byte(rendered), 0o600); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(detectCmd)

	detectCmd.Flags().Bool("oneshot", false, "rebuild the detector for every image")
}
