package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"MarketAdvisor/internal/model"
)

const historySuffix = "_history.csv"

// CSVStore reads per-symbol history files from a directory tree of the form
// <root>/<category>/<SYMBOL>_history.csv. Names match case-insensitively.
type CSVStore struct {
	Root string
}

// NewCSVStore creates a store rooted at dir.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{Root: dir}
}

// Load resolves and parses the history file of symbol.
func (s *CSVStore) Load(symbol, category string) (*model.PriceSeries, error) {
	path, cat, err := s.resolve(symbol, category)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, unavailable(symbol, "no history file")
		}
		return nil, &AccessError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	points, err := ParseHistory(f)
	if err != nil {
		return nil, &AccessError{Op: "read", Path: path, Err: err}
	}
	if len(points) == 0 {
		return nil, unavailable(symbol, "no usable rows in %s", path)
	}
	return &model.PriceSeries{Symbol: symbol, Category: cat, Points: points}, nil
}

func (s *CSVStore) resolve(symbol, category string) (path, cat string, err error) {
	if category != "" {
		dir, ok, err := s.lookup(s.Root, category, true)
		if err != nil || !ok {
			return "", "", firstErr(err, unavailable(symbol, "unknown category %q", category))
		}
		name, ok, err := s.lookup(dir, NormalizeSymbol(symbol)+historySuffix, false)
		if err != nil || !ok {
			return "", "", firstErr(err, unavailable(symbol, "not found in category %q", category))
		}
		return filepath.Join(dir, name), filepath.Base(dir), nil
	}

	cats, err := s.categories()
	if err != nil {
		return "", "", err
	}
	for _, c := range cats {
		dir := filepath.Join(s.Root, c)
		for _, cand := range candidates(symbol) {
			name, ok, err := s.lookup(dir, cand+historySuffix, false)
			if err != nil {
				return "", "", err
			}
			if ok {
				return filepath.Join(dir, name), c, nil
			}
		}
	}
	return "", "", unavailable(symbol, "no history file in %s", s.Root)
}

// lookup finds an entry of dir whose name equals want ignoring case. For a
// directory want it returns the joined path, for a file the entry name.
func (s *CSVStore) lookup(dir, want string, wantDir bool) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, &AccessError{Op: "list", Path: dir, Err: err}
	}
	for _, e := range entries {
		if e.IsDir() != wantDir || !strings.EqualFold(e.Name(), want) {
			continue
		}
		if wantDir {
			return filepath.Join(dir, e.Name()), true, nil
		}
		return e.Name(), true, nil
	}
	return "", false, nil
}

// categories returns the category directory names in lexical order.
func (s *CSVStore) categories() ([]string, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &AccessError{Op: "list", Path: s.Root, Err: err}
	}
	var cats []string
	for _, e := range entries {
		if e.IsDir() {
			cats = append(cats, e.Name())
		}
	}
	return cats, nil
}

// Symbols lists every stored series.
func (s *CSVStore) Symbols() ([]SymbolRef, error) {
	cats, err := s.categories()
	if err != nil {
		return nil, err
	}
	var refs []SymbolRef
	for _, c := range cats {
		dir := filepath.Join(s.Root, c)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, &AccessError{Op: "list", Path: dir, Err: err}
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || len(name) <= len(historySuffix) || !strings.EqualFold(name[len(name)-len(historySuffix):], historySuffix) {
				continue
			}
			refs = append(refs, SymbolRef{Category: c, Symbol: name[:len(name)-len(historySuffix)]})
		}
	}
	return refs, nil
}

// Write replaces the history file of symbol in category. The file is written
// to a temporary name first so readers never see a partial file.
func (s *CSVStore) Write(category, symbol string, points []model.PricePoint) error {
	dir := filepath.Join(s.Root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &AccessError{Op: "mkdir", Path: dir, Err: err}
	}
	path := filepath.Join(dir, NormalizeSymbol(symbol)+historySuffix)

	tmp, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return &AccessError{Op: "create", Path: dir, Err: err}
	}
	defer os.Remove(tmp.Name())

	if err := WriteHistory(tmp, symbol, points); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return &AccessError{Op: "close", Path: tmp.Name(), Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &AccessError{Op: "rename", Path: path, Err: err}
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
