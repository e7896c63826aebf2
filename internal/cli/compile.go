package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/relayts/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledDocument summarizes one document of the compilation set.
type CompiledDocument struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Hash string `json:"hash"`
}

// CompilationResult summarizes a compilation set.
type CompilationResult struct {
	SchemaHash string             `json:"schema_hash"`
	Documents  []CompiledDocument `json:"documents"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [source-dir]",
		Short: "Compile CUE documents to canonical IR",
		Long: `Compile a CUE schema and its documents to the canonical IR.

Prints each document's content hash. With --output the full IR is written
as canonical JSON, the same encoding used for artifact cache keys.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runCompile(opts, dir, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, loadErrors := LoadDocuments(dir)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	set := loadResult.Context
	result, err := summarize(set)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "compile", err)
	}

	if opts.Output != "" {
		if err := writeIRToFile(set, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, ErrCodeWriteFailed, err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d document(s)\n\n", len(result.Documents))
	for _, d := range result.Documents {
		fmt.Fprintf(formatter.Writer, "  %-12s %s  %s\n", d.Kind, d.Hash[:12], d.Name)
	}
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote canonical IR to %s\n", opts.Output)
	}
	return nil
}

func summarize(set *ir.Context) (*CompilationResult, error) {
	schemaHash, err := ir.SchemaHash(set.Schema)
	if err != nil {
		return nil, errors.Wrap(err, "hash schema")
	}
	result := &CompilationResult{SchemaHash: schemaHash, Documents: []CompiledDocument{}}
	for _, doc := range set.Documents() {
		h, err := ir.DocumentHash(doc)
		if err != nil {
			return nil, errors.Wrapf(err, "hash %s", doc.DocumentName())
		}
		result.Documents = append(result.Documents, CompiledDocument{
			Name: doc.DocumentName(),
			Kind: ir.DocumentKind(doc),
			Hash: h,
		})
	}
	return result, nil
}

// writeIRToFile writes the compilation set as canonical JSON.
func writeIRToFile(set *ir.Context, filename string) error {
	docs := make(ir.IRArray, 0, set.Len())
	for _, doc := range set.Documents() {
		docs = append(docs, ir.DocumentValue(doc))
	}
	data, err := ir.MarshalCanonical(ir.IRObject{
		"ir_version": ir.IRString(ir.IRVersion),
		"schema":     ir.SchemaValue(set.Schema),
		"documents":  docs,
	})
	if err != nil {
		return errors.Wrap(err, "marshal IR")
	}
	return os.WriteFile(filename, append(data, '\n'), 0o644)
}
