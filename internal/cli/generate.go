package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/relayts/internal/codegen"
	"github.com/roach88/relayts/internal/config"
	"github.com/roach88/relayts/internal/logger"
	"github.com/roach88/relayts/internal/pipeline"
	"github.com/roach88/relayts/internal/store"
)

// ArtifactSuffix is appended to document names to form artifact file names.
const ArtifactSuffix = ".graphql.ts"

// GenerateOptions holds flags for the generate command that are not
// plain config keys.
type GenerateOptions struct {
	*RootOptions
	Watch         bool
	Clean         bool
	CustomScalars []string // Scalar=Type
}

// ArtifactSummary describes one written artifact.
type ArtifactSummary struct {
	Name     string            `json:"name"`
	Kind     string            `json:"kind"`
	File     string            `json:"file"`
	Cached   bool              `json:"cached"`
	Written  bool              `json:"written"`
	Warnings []codegen.Warning `json:"warnings,omitempty"`
}

// GenerateResult is the command's output payload.
type GenerateResult struct {
	RunID     string            `json:"run_id,omitempty"`
	Output    string            `json:"output"`
	Artifacts []ArtifactSummary `json:"artifacts"`
	Hits      int               `json:"cache_hits"`
	Removed   []string          `json:"removed,omitempty"`
}

// generateFlags maps config keys to flag names. Flags override the
// config file and environment only when set.
var generateFlags = map[string]string{
	"output":                        "output",
	"cache":                         "cache",
	"workers":                       "workers",
	"enums_haste_module":            "enums-module",
	"existing_fragment_names":       "existing-fragment",
	"optional_input_fields":         "optional-input-field",
	"use_haste":                     "use-haste",
	"use_single_artifact_directory": "single-artifact-directory",
	"no_future_proof_enums":         "no-future-proof-enums",
	"strict_scalars":                "strict-scalars",
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [source-dir]",
		Short: "Generate TypeScript artifacts",
		Long: `Generate one <Name>.graphql.ts artifact per fragment and operation.

Settings come from relayts.yaml, RELAYTS_* environment variables and the
flags below, in increasing precedence. With --cache, artifacts whose
inputs are unchanged are served from a SQLite cache. With --watch, the
source directory is regenerated on every change until interrupted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "artifact directory")
	f.String("cache", "", "SQLite artifact cache path (empty disables)")
	f.Int("workers", 0, "concurrent documents (0 = GOMAXPROCS)")
	f.String("enums-module", "", "import enums from this module instead of declaring them")
	f.StringSlice("existing-fragment", nil, "fragment with a generated artifact (repeatable)")
	f.StringSlice("optional-input-field", nil, "variable or input field that is always optional (repeatable)")
	f.Bool("use-haste", false, "import fragments by bare module name")
	f.Bool("single-artifact-directory", false, "import fragments from ./Name.graphql")
	f.Bool("no-future-proof-enums", false, `omit the "%future added value" enum member`)
	f.Bool("strict-scalars", false, "fail on scalars without a type mapping")
	f.StringSliceVar(&opts.CustomScalars, "custom-scalar", nil, "scalar mapping Scalar=Type (repeatable)")
	f.BoolVar(&opts.Watch, "watch", false, "regenerate on source changes")
	f.BoolVar(&opts.Clean, "clean", true, "remove artifacts for documents that no longer exist")

	return cmd
}

// loadConfig merges config file, environment and set flags.
func loadConfig(opts *GenerateOptions, cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v, opts.Config)
	if err != nil {
		return nil, err
	}
	for _, spec := range opts.CustomScalars {
		scalar, typ, ok := strings.Cut(spec, "=")
		if !ok || scalar == "" || typ == "" {
			return nil, errors.WithHint(
				errors.Newf("invalid --custom-scalar %q", spec),
				"use Scalar=Type, e.g. --custom-scalar Color=String")
		}
		cfg.CustomScalars = setScalar(cfg.CustomScalars, scalar, typ)
	}
	return cfg, cfg.Validate()
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range generateFlags {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}

func setScalar(mappings []config.ScalarMapping, scalar, typ string) []config.ScalarMapping {
	for i := range mappings {
		if mappings[i].Scalar == scalar {
			mappings[i].Type = typ
			return mappings
		}
	}
	return append(mappings, config.ScalarMapping{Scalar: scalar, Type: typ})
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := logger.ComponentLogger("cli")

	cfg, err := loadConfig(opts, cmd)
	if err != nil {
		var details any
		if hint := errors.FlattenHints(err); hint != "" {
			details = hint
		}
		_ = formatter.Error(ErrCodeConfig, err.Error(), details)
		return WrapExitError(ExitCommandError, ErrCodeConfig, err)
	}
	dir := cfg.Source
	if len(args) == 1 {
		dir = args[0]
	}

	var cache *store.Store
	if cfg.Cache != "" {
		cache, err = store.Open(cfg.Cache)
		if err != nil {
			_ = formatter.Error(ErrCodeCache, err.Error(), nil)
			return WrapExitError(ExitCommandError, ErrCodeCache, err)
		}
		defer cache.Close()
		log.Debugw("cache opened", "path", cfg.Cache)
	}

	ctx := cmd.Context()
	g := &generator{opts: opts, cfg: cfg, dir: dir, cache: cache, formatter: formatter}
	if !opts.Watch {
		return g.run(ctx)
	}

	formatter.VerboseLog("Watching %s for changes", dir)
	return generateAndWatch(ctx, dir, 200*time.Millisecond, log, g.run)
}

type generator struct {
	opts      *GenerateOptions
	cfg       *config.Config
	dir       string
	cache     *store.Store
	formatter *OutputFormatter
}

// run loads, generates and writes once.
func (g *generator) run(ctx context.Context) error {
	formatter := g.formatter

	loadResult, loadErrors := LoadDocuments(g.dir)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, g.dir)

	popts := []pipeline.Option{pipeline.WithWorkers(g.cfg.Workers)}
	if g.cache != nil {
		popts = append(popts, pipeline.WithCache(g.cache))
	}
	res, err := pipeline.New(g.cfg.CodegenOptions(), popts...).Run(ctx, loadResult.Context)
	if err != nil {
		return outputPipelineError(formatter, err)
	}

	summary, err := writeArtifacts(g.cfg.Output, res, g.opts.Clean)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(summary)
	}
	written := 0
	for _, a := range summary.Artifacts {
		if a.Written {
			written++
		}
		if a.Written {
			formatter.VerboseLog("wrote %s", a.File)
		} else {
			formatter.VerboseLog("unchanged %s", a.File)
		}
		for _, w := range a.Warnings {
			fmt.Fprintf(formatter.Writer, "  warning %s\n", w)
		}
	}
	for _, f := range summary.Removed {
		formatter.VerboseLog("removed %s", f)
	}
	fmt.Fprintf(formatter.Writer, "✓ Generated %d artifact(s) in %s (%d written, %d from cache, %d removed)\n",
		len(summary.Artifacts), summary.Output, written, summary.Hits, len(summary.Removed))
	return nil
}

func outputPipelineError(formatter *OutputFormatter, err error) error {
	var invalid *pipeline.InvalidError
	if errors.As(err, &invalid) {
		_ = formatter.Errors("Validation failed", validationCLIErrors(invalid.Errors))
		return WrapExitError(ExitFailure, "validation failed", err)
	}
	var genErr *codegen.Error
	if errors.As(err, &genErr) {
		_ = formatter.Error(genErr.Code, genErr.Path+": "+genErr.Message, nil)
		return WrapExitError(ExitFailure, "generation failed", err)
	}
	if errors.Is(err, context.Canceled) {
		return WrapExitError(ExitCommandError, "interrupted", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "generate", err)
}

// writeArtifacts writes every artifact into dir, leaving files whose
// content is unchanged untouched. With clean set, other *.graphql.ts
// files in dir are removed.
func writeArtifacts(dir string, res *pipeline.Result, clean bool) (*GenerateResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}

	summary := &GenerateResult{RunID: res.RunID, Output: dir, Hits: res.Hits, Artifacts: []ArtifactSummary{}}
	keep := make(map[string]bool, len(res.Artifacts))
	for _, a := range res.Artifacts {
		name := a.Name + ArtifactSuffix
		path := filepath.Join(dir, name)
		keep[name] = true

		written := true
		if existing, err := os.ReadFile(path); err == nil && string(existing) == a.Text {
			written = false
		}
		if written {
			if err := os.WriteFile(path, []byte(a.Text), 0o644); err != nil {
				return nil, errors.Wrapf(err, "write %s", path)
			}
		}
		summary.Artifacts = append(summary.Artifacts, ArtifactSummary{
			Name:     a.Name,
			Kind:     a.Kind,
			File:     path,
			Cached:   a.Cached,
			Written:  written,
			Warnings: a.Warnings,
		})
	}

	if !clean {
		return summary, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", dir)
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ArtifactSuffix) || keep[name] {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return nil, errors.Wrapf(err, "remove %s", path)
		}
		summary.Removed = append(summary.Removed, path)
	}
	sort.Strings(summary.Removed)
	return summary, nil
}
