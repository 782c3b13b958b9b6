// Package aggregate merges the per-file datasets scattered under an output
// root into three canonical collections: qa.json, instruct.json, and a
// context-suppressed cleaned_instruct.json.
package aggregate

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"code2dataset/internal/dataset"
	"code2dataset/internal/fileio"
)

// Canonical artifact names at the aggregation root.
const (
	QAFile              = "qa.json"
	InstructFile        = "instruct.json"
	CleanedInstructFile = "cleaned_instruct.json"
)

// Combine gathers every per-file dataset under root, merges each kind into a
// canonical deduplicated collection, derives the context-suppressed variant,
// and persists all three at root. A pre-existing canonical file is included
// first, so re-runs refine rather than reset the collections. Unreadable or
// malformed dataset files fail the whole pass; a partial canonical dataset
// is worse than a visible failure.
func Combine(root string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	var qa []dataset.QAPair
	if err := collect(root, QAFile, ".qa.json", &qa); err != nil {
		return err
	}
	qa = dedupe(qa, func(r dataset.QAPair) string { return r.Question })
	if err := fileio.Write(filepath.Join(root, QAFile), emptyAsList(qa)); err != nil {
		return err
	}

	var instruct []dataset.InstructionRecord
	if err := collect(root, InstructFile, ".instruct.json", &instruct); err != nil {
		return err
	}
	instruct = dedupe(instruct, func(r dataset.InstructionRecord) string { return r.Instruction })
	if err := fileio.Write(filepath.Join(root, InstructFile), emptyAsList(instruct)); err != nil {
		return err
	}

	cleaned := SuppressContexts(instruct)
	if err := fileio.Write(filepath.Join(root, CleanedInstructFile), emptyAsList(cleaned)); err != nil {
		return err
	}

	log.Info("combined datasets",
		zap.String("root", root),
		zap.Int("qa_records", len(qa)),
		zap.Int("instruct_records", len(instruct)))
	return nil
}

// collect appends the pre-existing canonical file (if any) and then every
// per-file dataset matching suffix, in lexical walk order, into target.
// target must be a pointer to a record slice.
func collect[T any](root, canonical, suffix string, target *[]T) error {
	canonicalPath := filepath.Join(root, canonical)

	var existing []T
	if err := fileio.Read(canonicalPath, &existing); err == nil {
		*target = append(*target, existing...)
	} else if !isNotExist(err) {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		var records []T
		if err := fileio.Read(path, &records); err != nil {
			return err
		}
		*target = append(*target, records...)
		return nil
	})
}

// dedupe reduces records to key uniqueness: a later record with the same key
// replaces the earlier one in place, so the result keeps each surviving
// key's first-insertion position while carrying the last-encountered value.
func dedupe[T any](records []T, key func(T) string) []T {
	index := make(map[string]int, len(records))
	var out []T
	for _, r := range records {
		k := key(r)
		if at, seen := index[k]; seen {
			out[at] = r
			continue
		}
		index[k] = len(out)
		out = append(out, r)
	}
	return out
}

// SuppressContexts blanks the input of every record whose exact input value
// already appeared earlier in the collection, avoiding repetition of large
// source-text contexts. Instruction and output are untouched.
func SuppressContexts(records []dataset.InstructionRecord) []dataset.InstructionRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]dataset.InstructionRecord, len(records))
	for i, r := range records {
		if _, dup := seen[r.Input]; dup {
			r.Input = ""
		} else {
			seen[r.Input] = struct{}{}
		}
		out[i] = r
	}
	return out
}

// emptyAsList keeps empty collections serializing as [] rather than null.
func emptyAsList[T any](records []T) []T {
	if records == nil {
		return []T{}
	}
	return records
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
