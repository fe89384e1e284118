// Package cmd contains all the commands included in the hmmgo binary.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/hmmgo/hmmgo"
	"github.com/hmmgo/hmmgo/seq"
)

const (
	alphabetFlag = "alphabet"
	jobsFlag     = "jobs"
	logLevelFlag = "log-level"
)

// alphabetValue is a pflag.Value holding a residue alphabet, so an unknown
// name fails at flag parsing rather than halfway into a run.
type alphabetValue struct {
	alphabet *seq.Alphabet
}

var _ pflag.Value = (*alphabetValue)(nil)

func (v *alphabetValue) String() string {
	if v.alphabet == nil {
		return ""
	}
	return v.alphabet.Name()
}

func (v *alphabetValue) Set(name string) error {
	a, err := seq.ByName(name)
	if err != nil {
		return err
	}
	v.alphabet = a
	return nil
}

func (v *alphabetValue) Type() string { return "alphabet" }

// NewRootCommand is the parent of every hmmgo subcommand and carries the
// flags they all share.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hmmgo",
		Short: "Profile-based biological sequence search",
		Long: `Profile-based biological sequence search.

hmmgo searches profile queries against sequence databases (search), scans
sequences against profile databases (scan), and converts text profile
databases to a fast binary form (press). Queries run in parallel over a
worker pool; results keep query order.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Var(&alphabetValue{alphabet: seq.Amino()}, alphabetFlag, "sequence alphabet: amino, dna or rna")
	cmd.PersistentFlags().IntP(jobsFlag, "j", 0, "number of parallel workers (0 = all CPUs)")
	cmd.PersistentFlags().String(logLevelFlag, "", "log level: debug, info, warn or error (default off)")
	registerDatabaseFlags(cmd.PersistentFlags())

	return cmd
}

// commonOptions turns shared flags into run options.
func commonOptions(cmd *cobra.Command) ([]hmmgo.Option, error) {
	var opts []hmmgo.Option

	jobs, err := cmd.Flags().GetInt(jobsFlag)
	if err != nil {
		return nil, err
	}
	if jobs > 0 {
		opts = append(opts, hmmgo.WithWorkers(jobs))
	}

	level, err := cmd.Flags().GetString(logLevelFlag)
	if err != nil {
		return nil, err
	}
	if level != "" {
		var l slog.Level
		switch level {
		case "debug":
			l = slog.LevelDebug
		case "info":
			l = slog.LevelInfo
		case "warn":
			l = slog.LevelWarn
		case "error":
			l = slog.LevelError
		default:
			return nil, fmt.Errorf("unknown log level %q", level)
		}
		opts = append(opts, hmmgo.WithLogLevel(l))
	}

	return opts, nil
}
