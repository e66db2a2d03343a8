/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	dataFile       string
	maxDeviation   float64
	port           int
	positions      []string
	prefix         string
	profile        bool
	seed           uint64
	sessionTimeout time.Duration
	stats          []string
	teams          []string
	timedSeconds   int
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if c.timedSeconds < 1 || c.timedSeconds > maxTimedSeconds {
		return fmt.Errorf("invalid timed game length (must be between 1-%d seconds inclusive): %d", maxTimedSeconds, c.timedSeconds)
	}
	return nil
}

func (c *Config) validateSelection() error {
	if c.maxDeviation < 0 || math.IsNaN(c.maxDeviation) || math.IsInf(c.maxDeviation, 0) {
		return fmt.Errorf("invalid max deviation (must be a finite number >= 0): %v", c.maxDeviation)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// bindFlags lets every flag in fs fall back to its STATLINE_* environment
// variable when it was not set on the command line.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("STATLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "statline",
		Short:         "A baseball stat trivia game, served as a single webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&cfg.dataFile, "data", "", "path to a CSV player table to use instead of the built-in one (env: STATLINE_DATA)")
	pfs.Float64Var(&cfg.maxDeviation, "max-deviation", 1.0, "largest spread allowed between the four choices, as a multiple of the stat's standard deviation (env: STATLINE_MAX_DEVIATION)")
	pfs.Uint64Var(&cfg.seed, "seed", 0, "random seed for question selection, 0 picks one at startup (env: STATLINE_SEED)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: STATLINE_VERBOSE)")

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: STATLINE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: STATLINE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: STATLINE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: STATLINE_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle games are ended (env: STATLINE_SESSION_TIMEOUT)")
	fs.IntVar(&cfg.timedSeconds, "timed-seconds", 60, "length of a timed game in seconds (env: STATLINE_TIMED_SECONDS)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: STATLINE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: STATLINE_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: STATLINE_VERSION)")

	bindFlags(v, pfs)
	bindFlags(v, fs)

	cmd.AddCommand(newDeviationsCmd(cfg), newQuestionCmd(cfg, v))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("statline v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
