// Package main provides the kscope CLI: it runs a demo kernel workload
// through the profiled dispatcher and prints the per-kernel profile lines.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kscope-ml/kscope/internal/config"
	"github.com/kscope-ml/kscope/internal/engine"
	"github.com/kscope-ml/kscope/internal/profiler"
	"github.com/kscope-ml/kscope/internal/tensor"
)

const version = "v0.1.0-dev"

var (
	flagBackend  string
	flagLogLevel string
	flagConfig   string
	flagOutput   string
	flagSize     int
	flagSeed     int64
)

var rootCmd = &cobra.Command{
	Use:   "kscope",
	Short: "Kernel-execution profiler for tensor runtimes",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("kscope %s\n", version)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a demo kernel workload under the profiler",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		logrus.SetLevel(level)

		var out io.Writer = os.Stderr
		if cfg.Output != "" {
			f, err := os.Create(cfg.Output)
			if err != nil {
				return fmt.Errorf("opening profile output: %w", err)
			}
			defer f.Close()
			out = f
		}

		return runWorkload(cfg, out)
	},
}

// resolveConfig merges the optional config file with explicit flags.
// Flags win where the user set them.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("backend") {
		cfg.Backend = flagBackend
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = flagOutput
	}
	return cfg, cfg.Validate()
}

func runWorkload(cfg config.Config, out io.Writer) error {
	backend, err := newBackend(cfg.Backend)
	if err != nil {
		return err
	}
	defer backend.cleanup()

	registry := engine.NewRegistry()
	if err := backend.register(registry); err != nil {
		return err
	}

	prof := profiler.New(backend, backend,
		profiler.WithLogger(profiler.NewConsoleLogger(out)),
		profiler.WithNumericsCheck(cfg.CheckNumerics))
	dispatcher := engine.NewDispatcher(registry, backend, prof)

	logrus.Infof("profiling %v kernels on %s (%dx%d tensors)",
		registry.Names(), backend.Name(), flagSize, flagSize)

	rng := rand.New(rand.NewSource(flagSeed))
	shape := tensor.Shape{flagSize, flagSize}
	a, err := randomTensor(rng, shape, backend.Device())
	if err != nil {
		return err
	}
	b, err := randomTensor(rng, shape, backend.Device())
	if err != nil {
		return err
	}
	binary := map[string]*tensor.RawTensor{"a": a, "b": b}
	unary := map[string]*tensor.RawTensor{"x": a}

	for _, step := range []struct {
		kernel string
		inputs map[string]*tensor.RawTensor
	}{
		{"Add", binary},
		{"Mul", binary},
		{"MatMul", binary},
		{"Relu", unary},
		// Sqrt over a mixed-sign tensor demonstrates the NaN warning path.
		{"Sqrt", unary},
	} {
		if _, ok := registry.Get(step.kernel); !ok {
			logrus.Debugf("kernel %s not supported on %s, skipping", step.kernel, backend.Name())
			continue
		}
		if _, err := dispatcher.Dispatch(step.kernel, step.inputs); err != nil {
			return fmt.Errorf("dispatching %s: %w", step.kernel, err)
		}
	}

	// Drain readback and logging before exit.
	prof.Wait()
	return nil
}

// randomTensor fills a float32 tensor with values in [-1, 1).
func randomTensor(rng *rand.Rand, shape tensor.Shape, device tensor.Device) (*tensor.RawTensor, error) {
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}
	return tensor.FromFloat32(data, shape, device)
}

func init() {
	runCmd.Flags().StringVar(&flagBackend, "backend", "cpu", "compute backend (cpu, webgpu)")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&flagConfig, "config", "", "path to YAML config file")
	runCmd.Flags().StringVar(&flagOutput, "output", "", "file for profile lines (default stderr)")
	runCmd.Flags().IntVar(&flagSize, "size", 64, "demo tensor dimension (size x size)")
	runCmd.Flags().Int64Var(&flagSeed, "seed", 42, "seed for demo tensor values")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
