package codegen

import "fmt"

// Error codes reported by Generate.
const (
	// CodeUnmappedScalar: a scalar has no built-in or custom mapping and
	// StrictScalars is set.
	CodeUnmappedScalar = "E201"

	// CodeMalformedSelection: the selection tree contradicts the schema
	// (composite field without selections, leaf field with selections,
	// input object in a selection).
	CodeMalformedSelection = "E202"

	// CodeUnknownType: the IR names a type the schema does not declare.
	CodeUnknownType = "E203"
)

// Warning codes reported in Result.Warnings.
const (
	// WarnUnmappedScalar: a scalar fell back to unknown.
	WarnUnmappedScalar = "W201"
)

// Error is a generation failure located by its selection path.
type Error struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
}

func errorf(code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Warning is a non-fatal finding. The output is still usable.
type Warning struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String formats the warning like Error.
func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Path, w.Message)
}
