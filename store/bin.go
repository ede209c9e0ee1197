package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// UnknownField is the placeholder for BIN metadata that is not on file
const UnknownField = "Unknown"

// UnknownFlag is the placeholder glyph for an unknown issuing country
const UnknownFlag = "🏳️"

// BinRecord is the issuer metadata for one 6-digit BIN prefix
type BinRecord struct {
	Brand    string
	CardType string
	Level    string
	Bank     string
	Country  string
	Flag     string
	Currency string
}

// UnknownBinRecord returns a record with every field set to its placeholder
func UnknownBinRecord() BinRecord {
	return BinRecord{
		Brand:    UnknownField,
		CardType: UnknownField,
		Level:    UnknownField,
		Bank:     UnknownField,
		Country:  UnknownField,
		Flag:     UnknownFlag,
		Currency: UnknownField,
	}
}

// BinStore is the read-only BIN metadata table, loaded once at startup and
// immutable afterwards. Lookups never fail: a miss resolves to the Unknown
// placeholder record.
type BinStore struct {
	records map[string]BinRecord
}

// LoadBinStore reads the BIN CSV at path. The expected columns are
// number,country,flag,vendor,type,level,bank_name (header row required).
// A missing file is not an error: lookups then always return Unknown.
func LoadBinStore(path string, log *zap.SugaredLogger) (*BinStore, error) {
	s := &BinStore{records: make(map[string]BinRecord)}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Warnw("bin table not found, lookups will return Unknown", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bin table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		log.Warnw("bin table is empty", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bin table header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	if _, ok := columns["number"]; !ok {
		return nil, fmt.Errorf("bin table is missing the number column")
	}

	bar := progressbar.Default(-1, "loading BIN table")
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read bin table row: %w", err)
		}

		field := func(name, fallback string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) || row[idx] == "" {
				return fallback
			}
			return row[idx]
		}

		bin := row[columns["number"]]
		if bin == "" {
			continue
		}

		s.records[bin] = BinRecord{
			Brand:    field("vendor", UnknownField),
			CardType: field("type", UnknownField),
			Level:    field("level", UnknownField),
			Bank:     field("bank_name", UnknownField),
			Country:  field("country", UnknownField),
			Flag:     field("flag", UnknownFlag),
			Currency: field("currency", UnknownField),
		}
		bar.Add(1)
	}
	bar.Finish()

	log.Infow("bin table loaded", "path", path, "entries", len(s.records))
	return s, nil
}

// Lookup returns the metadata for the leading 6 digits of the given prefix.
// Absence is a valid result: missing BINs resolve to the Unknown record.
func (s *BinStore) Lookup(bin string) BinRecord {
	if len(bin) > 6 {
		bin = bin[:6]
	}
	if record, ok := s.records[bin]; ok {
		return record
	}
	return UnknownBinRecord()
}

// Len returns the number of loaded BIN records
func (s *BinStore) Len() int {
	return len(s.records)
}
