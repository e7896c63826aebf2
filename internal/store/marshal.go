package store

import (
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"

	"github.com/roach88/relayts/internal/codegen"
	"github.com/roach88/relayts/internal/ir"
)

// marshalWarnings converts warnings to canonical JSON TEXT for storage.
// Order is preserved; it is the generator's walk order.
func marshalWarnings(warnings []codegen.Warning) (string, error) {
	arr := make(ir.IRArray, len(warnings))
	for i, w := range warnings {
		arr[i] = ir.IRObject{
			"code":    ir.IRString(w.Code),
			"path":    ir.IRString(w.Path),
			"message": ir.IRString(w.Message),
		}
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", errors.Wrap(err, "marshal warnings")
	}
	return string(data), nil
}

// unmarshalWarnings parses stored warnings. An empty array yields nil so a
// cached Result compares equal to a fresh one.
func unmarshalWarnings(data string) ([]codegen.Warning, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var warnings []codegen.Warning
	if err := json.Unmarshal([]byte(data), &warnings); err != nil {
		return nil, errors.Wrap(err, "unmarshal warnings")
	}
	return warnings, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
