package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relayts/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                       `json:"valid"`
	Documents int                        `json:"documents"`
	Errors    []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [source-dir]",
		Short: "Check a schema and its documents without generating",
		Long: `Compile the CUE schema and documents and run every validation rule:
unknown fields and types, missing or illegal selections, undefined
fragments and variables, fragment cycles.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runValidate(rootOpts, dir, cmd)
		},
	}
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, loadErrors := LoadDocuments(dir)
	if len(loadErrors) > 0 {
		return outputLoadErrors(formatter, loadErrors)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	set := loadResult.Context
	for _, doc := range set.Documents() {
		formatter.VerboseLog("Validating %s", doc.DocumentName())
	}

	errs := compiler.Validate(set)
	if len(errs) > 0 {
		if formatter.Format == "json" {
			_ = formatter.encode(CLIResponse{
				Status: "error",
				Error:  &CLIError{Code: errs[0].Code, Message: errs[0].Message},
				Data:   ValidationResult{Valid: false, Documents: set.Len(), Errors: errs},
			})
		} else {
			_ = formatter.Errors("Validation failed", validationCLIErrors(errs))
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Documents: set.Len()})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d document(s) valid\n", set.Len())
	return nil
}

// outputLoadErrors reports loader failures. Unreadable sources are
// command errors (exit 2); documents that fail to compile are input
// failures (exit 1).
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	cliErrs := toCLIErrors(errs)
	if len(cliErrs) == 1 && cliErrs[0].Code != ErrCodeCompileFailed {
		_ = formatter.Error(cliErrs[0].Code, cliErrs[0].Message, cliErrs[0].Details)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", cliErrs[0].Code, cliErrs[0].Message))
	}
	_ = formatter.Errors("Compilation failed", cliErrs)
	return NewExitError(ExitFailure, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}
