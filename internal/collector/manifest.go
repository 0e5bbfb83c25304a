package collector

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FetchRecord is the outcome of the last download of one ticker.
type FetchRecord struct {
	Category  string    `json:"category"`
	Bars      int       `json:"bars"`
	LastDate  time.Time `json:"last_date,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
	Error     string    `json:"error,omitempty"`
}

// Manifest tracks per-ticker download state between collector runs.
type Manifest struct {
	mu        sync.RWMutex
	Records   map[string]FetchRecord `json:"records"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// LoadManifest reads the manifest from a JSON file. Returns an empty
// manifest if the file doesn't exist.
func LoadManifest(filePath string) (*Manifest, error) {
	m := &Manifest{Records: map[string]FetchRecord{}}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if m.Records == nil {
		m.Records = map[string]FetchRecord{}
	}
	return m, nil
}

// SaveManifest writes the manifest to a JSON file.
func SaveManifest(filePath string, m *Manifest) error {
	m.mu.Lock()
	m.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(m, "", "  ")
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// Get returns the record for ticker.
func (m *Manifest) Get(ticker string) (FetchRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.Records[ticker]
	return r, ok
}

// Put stores the record for ticker.
func (m *Manifest) Put(ticker string, r FetchRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records[ticker] = r
}

// Fresh reports whether ticker was fetched successfully within maxAge of now.
func (m *Manifest) Fresh(ticker string, maxAge time.Duration, now time.Time) bool {
	if maxAge <= 0 {
		return false
	}
	r, ok := m.Get(ticker)
	return ok && r.Error == "" && now.Sub(r.FetchedAt) < maxAge
}
