// Package cli implements the bufferph command tree.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/alexshd/bufferph"
)

// Option keys shared by flags, BUFFERPH_* environment variables and the
// config file.
const (
	optConfig    = "config"
	optLogLevel  = "log-level"
	optOutput    = "output"
	optCond      = "cond"
	optInitialPH = "initial-ph"
	optMaxIter   = "max-iter"
	optXTol      = "xtol"
	optMaxStep   = "max-step"
)

type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

// NewRootCmd builds the command tree with its own configuration state.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	a.v.SetEnvPrefix("BUFFERPH")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	solver := bufferph.DefaultSolverConfig()

	root := &cobra.Command{
		Use:   "bufferph",
		Short: "Acid/base equilibrium for phosphate, Tris and ammonium media",
		Long: `bufferph models the charge balance of growth media buffered by phosphate,
Tris and ammonium.

Media conditions are written as key=value pairs in millimolar, for example:

  sol_C=False;Tris=5;NH4=0.85;P_mix=4

Every flag can also be set with a BUFFERPH_<FLAG> environment variable
(dashes become underscores) or in a YAML file passed with --config.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.String(optConfig, "", "YAML config file with option values")
	pf.String(optLogLevel, "info", "log level: debug, info, warn or error")
	pf.StringP(optOutput, "o", "text", "output format: text, json or yaml")
	pf.Float64(optInitialPH, solver.InitialPH, "initial pH guess for the inverse solve")
	pf.Int(optMaxIter, solver.MaxIter, "iteration budget per dose")
	pf.Float64(optXTol, solver.XTol, "relative step tolerance for convergence")
	pf.Float64(optMaxStep, solver.MaxStep, "largest Newton step in pH units")

	root.AddCommand(
		a.hclCmd(),
		a.curveCmd(),
		a.phCmd(),
		a.predictCmd(),
	)
	return root
}

// setup binds the executing command's flags, reads the config file and
// installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if path := a.v.GetString(optConfig); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString(optLogLevel))); err != nil {
		return fmt.Errorf("%s: %w", optLogLevel, err)
	}

	a.logger = slog.New(tint.NewHandler(cmd.ErrOrStderr(), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) solverConfig() bufferph.SolverConfig {
	cfg := bufferph.DefaultSolverConfig()
	cfg.InitialPH = a.v.GetFloat64(optInitialPH)
	cfg.MaxIter = a.v.GetInt(optMaxIter)
	cfg.XTol = a.v.GetFloat64(optXTol)
	cfg.MaxStep = a.v.GetFloat64(optMaxStep)
	cfg.Logger = a.logger
	return cfg
}

// condition parses the required --cond option.
func (a *app) condition() (bufferph.Overrides, error) {
	s := a.v.GetString(optCond)
	if s == "" {
		return bufferph.Overrides{}, &bufferph.MissingParameterError{Name: optCond}
	}
	cond, err := bufferph.ParseCondition(s)
	if err != nil {
		return bufferph.Overrides{}, fmt.Errorf("--%s: %w", optCond, err)
	}
	a.logger.Debug("parsed condition", "cond", s, "parsed", cond.String())
	return cond, nil
}

// require fails with MissingParameterError unless key was given somewhere.
func (a *app) require(key string) error {
	if !a.v.IsSet(key) {
		return &bufferph.MissingParameterError{Name: key}
	}
	return nil
}

func addCondFlag(fs *pflag.FlagSet) {
	fs.String(optCond, "", `media condition in mM, e.g. "sol_C=False;Tris=5;NH4=0.85;P_mix=4"`)
}
