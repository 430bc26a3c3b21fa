package exchange

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// CacheRecord is the persisted last-known rate.
type CacheRecord struct {
	Date        string    `json:"date"`
	USDRate     float64   `json:"usdRate"`
	LastUpdated time.Time `json:"lastUpdated"`
	Source      string    `json:"source"`
}

// fileStore persists a single CacheRecord as JSON on disk.
type fileStore struct {
	path string
}

func newFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

func (s *fileStore) Load() (*CacheRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "exchange: reading rate cache file")
	}

	var record CacheRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "exchange: decoding rate cache file")
	}

	return &record, nil
}

func (s *fileStore) Save(record *CacheRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "exchange: creating rate cache dir")
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "exchange: encoding rate cache file")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "exchange: writing rate cache file")
	}

	return errors.Wrap(os.Rename(tmp, s.path), "exchange: replacing rate cache file")
}
