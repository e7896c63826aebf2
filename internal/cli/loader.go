package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"github.com/cockroachdb/errors"

	"github.com/roach88/relayts/internal/compiler"
	"github.com/roach88/relayts/internal/ir"
)

// LoadResult contains a compilation set loaded from a source directory.
type LoadResult struct {
	Context   *ir.Context
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred while loading sources.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants for loading and driver failures. Validation codes
// (E1xx) come from the compiler and generation codes (E2xx) from codegen.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeLoadFailed    = "E004" // CUE load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeCompileFailed = "E008" // CUE value does not describe a schema or document
	ErrCodeConfig        = "E009" // Config file unreadable or invalid
	ErrCodeCache         = "E010" // Artifact cache unavailable
)

// LoadDocuments loads every CUE file of dir as one instance and compiles it
// into a compilation set. All compile errors are returned; the result is
// nil only when nothing usable could be built.
func LoadDocuments(dir string) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("source directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing source directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := cuecontext.New().BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	ctx, compileErrs := compiler.Compile(value)
	errs := make([]error, len(compileErrs))
	for i, err := range compileErrs {
		errs[i] = convertCompileError(err)
	}
	if ctx == nil {
		return nil, errs
	}
	return &LoadResult{Context: ctx, FileCount: len(cueFiles)}, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
// Directories starting with "." or "_" are skipped, matching the CUE loader.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (name[0] == '.' || name[0] == '_') {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompileFailed,
			Message: compileErr.Field + ": " + compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// toCLIErrors flattens load errors for output.
func toCLIErrors(errs []error) []CLIError {
	out := make([]CLIError, len(errs))
	for i, err := range errs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			out[i] = CLIError{Code: loadErr.Code, Message: loadErr.Message}
			if loadErr.Pos.IsValid() {
				out[i].Details = map[string]any{
					"file":   loadErr.Pos.Filename(),
					"line":   loadErr.Pos.Line(),
					"column": loadErr.Pos.Column(),
				}
			}
			continue
		}
		out[i] = CLIError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	return out
}

// validationCLIErrors converts compiler validation errors for output.
func validationCLIErrors(errs []compiler.ValidationError) []CLIError {
	out := make([]CLIError, len(errs))
	for i, e := range errs {
		out[i] = CLIError{Code: e.Code, Message: e.Field + ": " + e.Message}
	}
	return out
}
