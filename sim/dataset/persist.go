package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

// Supported persistence formats.
const (
	FormatJSON  = "json"  // one indented JSON array
	FormatJSONL = "jsonl" // one sample per line
)

// SaveDataset writes samples to path in the given format. JSONL is the
// format the downstream training pipeline ingests; JSON is for inspection.
func SaveDataset(samples []*sim.TrainingSample, path, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(samples); err != nil {
			return fmt.Errorf("encode dataset: %w", err)
		}
	case FormatJSONL:
		w := bufio.NewWriter(f)
		enc := json.NewEncoder(w)
		for _, s := range samples {
			if err := enc.Encode(s); err != nil {
				return fmt.Errorf("encode sample %s: %w", s.ID, err)
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush dataset: %w", err)
		}
	default:
		return fmt.Errorf("unknown dataset format %q (want %q or %q)", format, FormatJSON, FormatJSONL)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close dataset file: %w", err)
	}
	return nil
}

// LoadDataset reads a dataset file written by SaveDataset.
func LoadDataset(path, format string) ([]*sim.TrainingSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer f.Close()

	var samples []*sim.TrainingSample
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(f).Decode(&samples); err != nil {
			return nil, fmt.Errorf("decode dataset: %w", err)
		}
	case FormatJSONL:
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 1<<20), 1<<26)
		for sc.Scan() {
			if len(sc.Bytes()) == 0 {
				continue
			}
			var s sim.TrainingSample
			if err := json.Unmarshal(sc.Bytes(), &s); err != nil {
				return nil, fmt.Errorf("decode sample line: %w", err)
			}
			samples = append(samples, &s)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown dataset format %q (want %q or %q)", format, FormatJSON, FormatJSONL)
	}
	return samples, nil
}
