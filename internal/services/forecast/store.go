package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store lays out model artifacts on disk, one directory per symbol:
//
//	<base>/<SYMBOL>/ensemble/<name>.json
//	<base>/<SYMBOL>/fallback.json
type Store struct {
	base string
}

func NewStore(base string) *Store {
	return &Store{base: base}
}

func (s *Store) symbolDir(symbol string) string {
	return filepath.Join(s.base, strings.ToUpper(symbol))
}

func (s *Store) SaveEnsemble(symbol string, e *Ensemble) error {
	return e.Save(filepath.Join(s.symbolDir(symbol), "ensemble"))
}

func (s *Store) LoadEnsemble(symbol string, e *Ensemble) error {
	return e.Load(filepath.Join(s.symbolDir(symbol), "ensemble"))
}

func (s *Store) SaveFallback(symbol string, m *SymbolModel) error {
	dir := s.symbolDir(symbol)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("model dir: %w", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal fallback: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fallback.json"), data, 0o644); err != nil {
		return fmt.Errorf("write fallback: %w", err)
	}
	return nil
}

func (s *Store) LoadFallback(symbol string, m *SymbolModel) error {
	data, err := os.ReadFile(filepath.Join(s.symbolDir(symbol), "fallback.json"))
	if err != nil {
		return fmt.Errorf("read fallback: %w", err)
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal fallback: %w", err)
	}
	return nil
}

// HasEnsemble reports whether a full set of ensemble artifacts exists.
func (s *Store) HasEnsemble(symbol string) bool {
	dir := filepath.Join(s.symbolDir(symbol), "ensemble")
	for name := range Weights {
		if _, err := os.Stat(artifactPath(dir, name)); err != nil {
			return false
		}
	}
	return true
}

// HasFallback reports whether a trained per-symbol model exists.
func (s *Store) HasFallback(symbol string) bool {
	_, err := os.Stat(filepath.Join(s.symbolDir(symbol), "fallback.json"))
	return err == nil
}
