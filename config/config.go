// Package config resolves the agent's settings from the command line, an
// optional YAML file, and the environment. Explicit flags always win over
// the file.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"kalah/engine"
)

// VerbosityEnv is the log-level environment variable: 0 is silent, 1 logs
// per-move summaries, 2 adds search statistics.
const VerbosityEnv = "KALAH_VERBOSITY"

// Config is the fully validated agent configuration.
type Config struct {
	Mode      engine.Mode
	Depth     int
	Weights   engine.Weights
	Verbosity int
}

// fileConfig is the YAML shape of a config file.
type fileConfig struct {
	Search  string    `yaml:"search"`
	Depth   *int      `yaml:"depth"`
	Weights []float32 `yaml:"weights"`
}

// Load parses the given argument list (without the program name).
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("kalah", flag.ContinueOnError)
	search := fs.String("search", "", "search algorithm: minimax or alpha-beta (default alpha-beta)")
	depth := fs.Int("depth", -1, "search depth in plies (required)")
	weights := fs.String("weights", "", "five heuristic weights, e.g. --weights 1 0 0 0 0 (required)")
	file := fs.String("config", "", "optional YAML file with search settings")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return Config{}, errors.Wrap(err, "config")
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return Config{}, errors.Wrapf(err, "config: parsing %s", *file)
		}
	}

	cfg := Config{Depth: -1}

	if fc.Search != "" {
		mode, err := engine.ParseMode(fc.Search)
		if err != nil {
			return Config{}, errors.Wrap(err, "config")
		}
		cfg.Mode = mode
	}
	if *search != "" {
		mode, err := engine.ParseMode(*search)
		if err != nil {
			return Config{}, err
		}
		cfg.Mode = mode
	}

	if fc.Depth != nil {
		cfg.Depth = *fc.Depth
	}
	if *depth >= 0 {
		cfg.Depth = *depth
	}
	if cfg.Depth < 0 {
		return Config{}, errors.New("config: --depth is required")
	}

	haveWeights := false
	if len(fc.Weights) > 0 {
		w, err := toWeights(fc.Weights)
		if err != nil {
			return Config{}, err
		}
		cfg.Weights, haveWeights = w, true
	}
	if *weights != "" || fs.NArg() > 0 {
		// Accept both --weights "1 0 0 0 0" and --weights 1 0 0 0 0; in the
		// second form flag parsing leaves the tail as positional arguments.
		tokens := strings.Fields(*weights)
		tokens = append(tokens, fs.Args()...)
		values := make([]float32, 0, len(tokens))
		for _, tok := range tokens {
			v, err := strconv.ParseFloat(strings.TrimSuffix(tok, ","), 32)
			if err != nil {
				return Config{}, errors.Wrapf(err, "config: bad weight %q", tok)
			}
			values = append(values, float32(v))
		}
		w, err := toWeights(values)
		if err != nil {
			return Config{}, err
		}
		cfg.Weights, haveWeights = w, true
	}
	if !haveWeights {
		return Config{}, errors.New("config: --weights is required")
	}

	cfg.Verbosity = verbosityFromEnv()
	return cfg, nil
}

func toWeights(values []float32) (engine.Weights, error) {
	var w engine.Weights
	if len(values) != engine.NumHeuristics {
		return w, errors.Errorf("config: want %d weights, got %d", engine.NumHeuristics, len(values))
	}
	copy(w[:], values)
	return w, nil
}

func verbosityFromEnv() int {
	v := os.Getenv(VerbosityEnv)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// SetupLogging points klog at stderr with the configured verbosity. The
// referee owns stdout, so nothing else may write there.
func SetupLogging(cfg Config) {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("logtostderr", "true")
	_ = fs.Set("v", fmt.Sprint(cfg.Verbosity))
}
