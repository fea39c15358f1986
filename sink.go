package insider

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dataset is the persisted envelope around a collected row set. Each run
// replaces the previous payload wholesale.
type Dataset struct {
	LastUpdatedUTC string `json:"last_updated_utc"`
	Source         string `json:"source"`
	Rows           any    `json:"rows"`
}

// NewDataset stamps rows with the current UTC time and a provenance
// label naming where the rows came from.
func NewDataset(source string, rows any) Dataset {
	return Dataset{
		LastUpdatedUTC: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Source:         source,
		Rows:           rows,
	}
}

// Sink persists named datasets.
type Sink interface {
	Write(name string, dataset Dataset) error
}

// FileSink writes each dataset as an indented JSON file named
// <name>.json under Dir, creating the directory as needed.
type FileSink struct {
	Dir string
}

func (s FileSink) Write(name string, dataset Dataset) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", s.Dir, err)
	}
	data, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset %s: %w", name, err)
	}
	path := filepath.Join(s.Dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset %s: %w", path, err)
	}
	return nil
}
