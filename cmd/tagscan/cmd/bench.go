package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tagscan/tagscan/internal/benchmark"
	"github.com/tagscan/tagscan/internal/config"
	"github.com/tagscan/tagscan/internal/detector"
	"github.com/tagscan/tagscan/internal/distort"
	"github.com/tagscan/tagscan/internal/engine"
	"github.com/tagscan/tagscan/internal/imgload"
	"gopkg.in/yaml.v3"
)

// benchCmd represents the bench command.
var benchCmd = &cobra.Command{
	Use:   "bench <image>",
	Short: "Benchmark detection throughput on one image",
	Long: `Benchmark steady-state detection latency by running repeated detections
through one persistent detector handle. Setup cost is paid once and warmup
frames are discarded, so the numbers isolate per-frame cost.

Optional distortions (blur, contrast, brightness, noise) are applied to the
image once, before the run, to probe robustness.

Examples:
  tagscan bench frame.png --iterations 500
  tagscan bench frame.png --family tag16h5 --threads 4 --warmup 10
  tagscan bench frame.png --blur 1.5 --noise-sigma 5 --format json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		gray, meta, err := imgload.LoadGray(args[0])
		if err != nil {
			return err
		}

		dopts := distort.Options{
			BlurSigma:  cfg.Bench.BlurSigma,
			Contrast:   cfg.Bench.Contrast,
			Brightness: cfg.Bench.Brightness,
			NoiseSigma: cfg.Bench.NoiseSigma,
			NoiseSeed:  cfg.Bench.NoiseSeed,
		}
		if dopts.Enabled() {
			slog.Debug("applying distortions",
				"blur_sigma", dopts.BlurSigma,
				"contrast", dopts.Contrast,
				"brightness", dopts.Brightness,
				"noise_sigma", dopts.NoiseSigma)
			gray = distort.Apply(gray, dopts)
		}

		d, err := detector.New(cfg.Detector.Family, detector.Options{
			QuadDecimate: cfg.Detector.QuadDecimate,
			Threads:      cfg.Detector.Threads,
		})
		if err != nil {
			return err
		}
		defer func() { _ = d.Close() }()

		res, err := benchmark.Run(d, engine.FromGray(gray), cfg.Bench.Warmup, cfg.Bench.Iterations)
		if err != nil {
			return err
		}

		rendered, err := renderBenchResult(res, meta, cfg.Output.Format)
		if err != nil {
			return err
		}
		return writeOutput(cmd, rendered, cfg.Output.File)
	},
}

// renderBenchResult formats a bench result in the configured output format.
func renderBenchResult(res *benchmark.Result, meta imgload.Metadata, format string) (string, error) {
	switch format {
	case config.FormatJSON:
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal result: %w", err)
		}
		return string(b) + "\n", nil
	case config.FormatYAML:
		b, err := yaml.Marshal(res)
		if err != nil {
			return "", fmt.Errorf("marshal result: %w", err)
		}
		return string(b), nil
	case config.FormatText:
		return fmt.Sprintf(`Image:      %s (%dx%d)
Family:     %s
Iterations: %d (+%d warmup)
Detections: %d per frame
Latency:    mean %v, stddev %v
Quantiles:  p50 %v, p90 %v, p99 %v
Range:      %v - %v
Throughput: %.1f fps
`,
			meta.Path, meta.Width, meta.Height,
			res.Family,
			res.Iterations, res.Warmup,
			res.Detections,
			res.Latency.Mean, res.Latency.StdDev,
			res.Latency.P50, res.Latency.P90, res.Latency.P99,
			res.Latency.Min, res.Latency.Max,
			res.FPS()), nil
	default:
		return "", errors.New("unknown output format " + format)
	}
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntP("iterations", "n", 100, "number of timed detection calls")
	benchCmd.Flags().Int("warmup", 5, "untimed warmup calls before measuring")
	benchCmd.Flags().Float64("blur", 0, "gaussian blur sigma applied before the run")
	benchCmd.Flags().Float64("contrast", 1.0, "contrast scale around the image mean")
	benchCmd.Flags().Int("brightness", 0, "brightness offset applied before the run")
	benchCmd.Flags().Float64("noise-sigma", 0, "additive gaussian noise sigma")
	benchCmd.Flags().Int64("noise-seed", 0, "noise seed for reproducible runs")

	_ = viper.BindPFlag("bench.iterations", benchCmd.Flags().Lookup("iterations"))
	_ = viper.BindPFlag("bench.warmup", benchCmd.Flags().Lookup("warmup"))
	_ = viper.BindPFlag("bench.blur_sigma", benchCmd.Flags().Lookup("blur"))
	_ = viper.BindPFlag("bench.contrast", benchCmd.Flags().Lookup("contrast"))
	_ = viper.BindPFlag("bench.brightness", benchCmd.Flags().Lookup("brightness"))
	_ = viper.BindPFlag("bench.noise_sigma", benchCmd.Flags().Lookup("noise-sigma"))
	_ = viper.BindPFlag("bench.noise_seed", benchCmd.Flags().Lookup("noise-seed"))
}
