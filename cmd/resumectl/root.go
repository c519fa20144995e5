package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/engine"
	"resume-builder/resume/keywords"
	"resume-builder/resume/model"
	"resume-builder/resume/suggestions"
)

const app = "resumectl"

// Config is the engine section of the CLI config file.
type Config struct {
	MaxSuggestions int             `mapstructure:"max-suggestions"`
	MatchMode      string          `mapstructure:"match-mode"`
	Terms          []keywords.Term `mapstructure:"terms"`
}

type cli struct {
	v       *viper.Viper
	cfgFile string
	in      io.Reader
	out     io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	c := &cli{v: viper.New(), in: in, out: out}

	root := &cobra.Command{
		Use:           app,
		Short:         "resumectl scores resumes and matches them against job descriptions",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(os.Stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "engine config file (YAML, JSON or TOML)")
	flags.Int("max-suggestions", suggestions.DefaultMax, "maximum number of suggestions")
	flags.String("match-mode", string(keywords.MatchSubstring), "keyword match mode: substring or word")
	flags.BoolP("debug", "d", false, "debug logging to stderr")

	c.v.SetDefault("max-suggestions", suggestions.DefaultMax)
	c.v.SetDefault("match-mode", string(keywords.MatchSubstring))
	c.v.SetEnvPrefix("RESUMECTL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	_ = c.v.BindPFlag("max-suggestions", flags.Lookup("max-suggestions"))
	_ = c.v.BindPFlag("match-mode", flags.Lookup("match-mode"))
	_ = c.v.BindPFlag("debug", flags.Lookup("debug"))

	root.AddCommand(
		c.scoreCmd(),
		c.explainCmd(),
		c.suggestCmd(),
		c.optimizeCmd(),
		c.taxonomyCmd(),
	)
	return root
}

func (c *cli) init() error {
	logger := zap.NewNop()
	if c.v.GetBool("debug") {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = dev
	}
	telemetry.SetLogger(logger)

	if c.cfgFile == "" {
		return nil
	}
	c.v.SetConfigFile(c.cfgFile)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	telemetry.Debug("resumectl.config_loaded", map[string]any{"file": c.v.ConfigFileUsed()})
	return nil
}

func (c *cli) config() (Config, error) {
	var cfg Config
	if err := c.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c *cli) engine() (*engine.Engine, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	mode, err := keywords.ParseMatchMode(cfg.MatchMode)
	if err != nil {
		return nil, err
	}
	taxonomy := keywords.DefaultTaxonomy()
	if len(cfg.Terms) > 0 {
		taxonomy = keywords.FromTerms(cfg.Terms)
	}
	return engine.New(engine.Config{
		Taxonomy:       taxonomy,
		MaxSuggestions: cfg.MaxSuggestions,
		MatchMode:      mode,
	})
}

// open returns the named file, or stdin for "-".
func (c *cli) open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(c.in), nil
	}
	return os.Open(path)
}

func (c *cli) readResume(path string) (model.Resume, error) {
	f, err := c.open(path)
	if err != nil {
		return model.Resume{}, err
	}
	defer f.Close()

	var r model.Resume
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return model.Resume{}, fmt.Errorf("%w: %s is not a resume document: %v", model.ErrInvalidInput, path, err)
	}
	return r, nil
}

func (c *cli) readText(path string) (string, error) {
	f, err := c.open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
