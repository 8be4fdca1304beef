package table

import (
	"fmt"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// parseCUE builds a CUE table. Every field must be concrete.
func parseCUE(path string, data []byte) (*File, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, fromCUEError(path, ErrCodeParseFailed, err)
	}

	iter, err := value.Fields()
	if err != nil {
		return nil, fromCUEError(path, ErrCodeParseFailed, err)
	}
	for iter.Next() {
		if !slices.Contains(fields, iter.Label()) {
			return nil, &LoadError{
				Code:    ErrCodeUnknownField,
				Message: fmt.Sprintf("field %s not found in table", iter.Label()),
				Path:    path,
				Pos:     iter.Value().Pos(),
			}
		}
	}

	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fromCUEError(path, ErrCodeParseFailed, err)
	}

	var f File
	if err := value.Decode(&f); err != nil {
		return nil, fromCUEError(path, ErrCodeParseFailed, err)
	}
	f.Path = path
	return &f, nil
}
