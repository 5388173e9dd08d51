// Package cmd provides the root command and CLI setup for ctxpack.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/corvidwave/ctxpack/internal/adapter"
	"github.com/corvidwave/ctxpack/internal/config"
	"github.com/corvidwave/ctxpack/internal/domain"
	"github.com/corvidwave/ctxpack/internal/domain/compress"
	"github.com/corvidwave/ctxpack/internal/model"
)

var (
	outputFlag        string
	maxSizeFlag       string
	maxTokensFlag     string
	compressFlag      bool
	dryRunFlag        bool
	statsFlag         bool
	includeExtFlag    []string
	excludeExtFlag    []string
	matchFlag         []string
	fullMatchFlag     []string
	gitignoreFlag     bool
	verboseFlag       bool
)

func init() {
	configureRootFlags(rootCmd)
}

const pathPatternsHelp = `Accepts one or more root paths to scan (default: current directory).`

const rootLongDescription = `ctxpack packs a source tree into a single bounded-size text artifact
suitable for an LLM prompt: it scores files by importance, optionally
compresses lower-priority source files to bare signatures, and greedily
packs everything it can against a token budget.

` + pathPatternsHelp

var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ctxpack [paths...]",
		Short: "Pack a source tree into a bounded-size LLM prompt artifact",
		Long:  rootLongDescription,
		RunE:  runRoot,
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&outputFlag, outputFlagName, "o", viper.GetString(outputFlagName), "output file, or - for stdout")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&maxSizeFlag, maxSizeFlagName, viper.GetString(maxSizeFlagName), "skip files larger than this (binary suffixes: k/K, M, G)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(maxSizeFlagName), maxSizeFlagName)

	cmd.PersistentFlags().StringVar(&maxTokensFlag, maxTokensFlagName, "", "token budget ceiling (decimal suffixes: k/K, M, G)")

	cmd.PersistentFlags().BoolVar(&compressFlag, compressFlagName, false, "compress lower-priority source files to bare signatures")
	cmd.PersistentFlags().BoolVar(&dryRunFlag, dryRunFlagName, false, "print the inclusion manifest instead of the artifact")
	cmd.PersistentFlags().BoolVar(&statsFlag, statsFlagName, false, "print only the summary block")

	cmd.PersistentFlags().StringArrayVar(&includeExtFlag, includeExtFlagName, nil, "only include files with this extension (can be repeated)")
	cmd.PersistentFlags().StringArrayVarP(&excludeExtFlag, excludeExtFlagName, "x", nil, "exclude files with this extension (can be repeated)")
	cmd.PersistentFlags().StringArrayVar(&matchFlag, matchFlagName, nil, "only include files matching this glob (can be repeated)")
	cmd.PersistentFlags().StringArrayVar(&fullMatchFlag, fullMatchFlagName, nil, "never compress files matching this glob (can be repeated)")

	cmd.PersistentFlags().BoolVar(&gitignoreFlag, gitignoreFlagName, viper.GetBool(gitignoreFlagName), "respect .gitignore in each root")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(gitignoreFlagName), gitignoreFlagName)

	cmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "enable debug-level diagnostic logging")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	configureLogger("", verboseFlag)

	cfg, err := buildConfig(args)
	if err != nil {
		return err
	}

	source := &adapter.LocalCandidateSource{
		Roots:            cfg.Roots,
		RespectGitignore: cfg.RespectGitignore,
		Logger:           globalLogger,
	}

	pipeline := &domain.Pipeline{
		Source:     source,
		Config:     *cfg,
		Dispatcher: compress.NewDispatcher(),
		Warn: func(msg string) {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		},
	}

	out, closeOut, err := openOutput(cfg.Output)
	if err != nil {
		return err
	}
	defer closeOut()

	summary, err := pipeline.Run(context.Background(), out)
	if err != nil {
		return err
	}

	slog.Debug("pack complete",
		"candidates", summary.TotalCandidates,
		"full", summary.IncludedFull,
		"compressed", summary.IncludedCompressed,
		"excluded", summary.Excluded,
		"estimated_tokens", summary.EstimatedTokens,
	)
	return nil
}

func buildConfig(args []string) (*model.Config, error) {
	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	maxSize, err := config.ParseByteSize(maxSizeFlag)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", maxSizeFlagName, err)
	}

	cfg := &model.Config{
		Roots:            roots,
		IncludeExt:       normalizeExts(includeExtFlag),
		ExcludeExt:       normalizeExts(excludeExtFlag),
		MatchGlobs:       matchFlag,
		FullMatchGlobs:   fullMatchFlag,
		MaxSizeBytes:     maxSize,
		RespectGitignore: gitignoreFlag,
		Compress:         compressFlag,
		Output:           outputFlag,
		DryRun:           dryRunFlag,
		Stats:            statsFlag,
	}

	if maxTokensFlag != "" {
		ceiling, err := config.ParseTokenCount(maxTokensFlag)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", maxTokensFlagName, err)
		}
		cfg.TokenCeiling = ceiling
		cfg.TokenCeilingSet = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		if e == "" {
			continue
		}
		if e[0] != '.' {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func openOutput(path string) (f *os.File, closer func(), err error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	handle, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open output %s: %w", path, err)
	}
	return handle, func() { handle.Close() }, nil
}
