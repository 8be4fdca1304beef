package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadMode controls how errors are handled when loading a directory.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load reads, parses and validates one table file. The format follows the
// extension: .yaml and .yml are YAML, .cue is CUE.
func Load(path string) (*File, error) {
	parse, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("failed to read table file: %v", err), Path: path}
	}

	f, err := parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

func parserFor(path string) (func(string, []byte) (*File, error), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML, nil
	case ".cue":
		return parseCUE, nil
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported table format %q (want .yaml, .yml or .cue)", filepath.Ext(path)),
			Path:    path,
		}
	}
}

// IsTableFile reports whether path has a table file extension.
func IsTableFile(path string) bool {
	_, err := parserFor(path)
	return err == nil
}

// FindFiles walks dir and returns every table file path in lexical order.
func FindFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && IsTableFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// LoadDir loads every table under dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadDir(dir string, mode LoadMode) ([]*File, []error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("error accessing directory: %v", err), Path: dir}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeReadFailed, Message: "not a directory", Path: dir}}
	}

	paths, err := FindFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err), Path: dir}}
	}
	if len(paths) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: "no table files found", Path: dir}}
	}

	var (
		files []*File
		errs  []error
	)
	for _, path := range paths {
		f, err := Load(path)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return files, errs
			}
			continue
		}
		files = append(files, f)
	}
	return files, errs
}

// Code returns the LoadError code of err, or ErrCodeGeneric.
func Code(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}
