package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// VbvToken is one operator-curated 3DS enrollment record, keyed by BIN
type VbvToken struct {
	BIN      string
	Status   string
	Response string
}

// Enrolled reports whether the status marks the BIN as 3D Secure enrolled
func (t VbvToken) Enrolled() bool {
	return strings.Contains(strings.ToUpper(t.Status), "3D TRUE")
}

// Line renders the token in the on-disk pipe-delimited form
func (t VbvToken) Line() string {
	return t.BIN + "|" + t.Status + "|" + t.Response
}

// defaultVbvSeed is written when the table file does not exist yet
var defaultVbvSeed = []VbvToken{
	{BIN: "447697", Status: "3D TRUE ❌", Response: "3D Secure Required"},
	{BIN: "424242", Status: "3D FALSE ✅", Response: "3D Secure Not Required"},
}

// VbvStore holds the VBV token table. The table is small and file-sized: it
// is kept fully in memory and rewritten as a whole on every mutation, with a
// write-temp-then-rename step so a crash mid-write cannot truncate it.
// At most one record exists per BIN; adding replaces any existing record.
type VbvStore struct {
	path   string
	mu     sync.Mutex
	order  []string
	tokens map[string]VbvToken
	logger *zap.SugaredLogger
}

// LoadVbvStore loads the pipe-delimited token table at path, creating it
// with a default seed when absent. Lines starting with # and lines with
// fewer than three fields are skipped.
func LoadVbvStore(path string, log *zap.SugaredLogger) (*VbvStore, error) {
	s := &VbvStore{
		path:   path,
		tokens: make(map[string]VbvToken),
		logger: log,
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		for _, token := range defaultVbvSeed {
			s.order = append(s.order, token.BIN)
			s.tokens[token.BIN] = token
		}
		if err := s.persist(); err != nil {
			return nil, err
		}
		log.Infow("vbv table created with defaults", "path", path, "entries", len(s.tokens))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open vbv table: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "|", 3)
		if len(parts) < 3 {
			continue
		}
		token := VbvToken{
			BIN:      strings.TrimSpace(parts[0]),
			Status:   strings.TrimSpace(parts[1]),
			Response: strings.TrimSpace(parts[2]),
		}
		if _, seen := s.tokens[token.BIN]; !seen {
			s.order = append(s.order, token.BIN)
		}
		// last write wins per BIN
		s.tokens[token.BIN] = token
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read vbv table: %w", err)
	}

	log.Infow("vbv table loaded", "path", path, "entries", len(s.tokens))
	return s, nil
}

// Get returns the token for an exact BIN match
func (s *VbvStore) Get(bin string) (VbvToken, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[bin]
	return token, ok
}

// Add inserts the token, replacing any existing record for the same BIN,
// and persists the full table
func (s *VbvStore) Add(token VbvToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[token.BIN]; !exists {
		s.order = append(s.order, token.BIN)
	}
	s.tokens[token.BIN] = token

	if err := s.persist(); err != nil {
		return err
	}
	s.logger.Infow("vbv token added", "bin", token.BIN, "status", token.Status)
	return nil
}

// Remove deletes the record whose BIN matches exactly. Returns false when
// nothing was removed.
func (s *VbvStore) Remove(bin string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[bin]; !exists {
		return false, nil
	}

	delete(s.tokens, bin)
	for i, b := range s.order {
		if b == bin {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if err := s.persist(); err != nil {
		return false, err
	}
	s.logger.Infow("vbv token removed", "bin", bin)
	return true, nil
}

// Len returns the number of records in the table
func (s *VbvStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// persist rewrites the whole table atomically. Callers must hold the mutex.
func (s *VbvStore) persist() error {
	var builder strings.Builder
	builder.WriteString("# VBV BIN Database\n")
	builder.WriteString("# Format: BIN|STATUS|RESPONSE\n")
	for _, bin := range s.order {
		token, ok := s.tokens[bin]
		if !ok {
			continue
		}
		builder.WriteString(token.Line())
		builder.WriteString("\n")
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create vbv table directory: %w", err)
	}
	if err := os.WriteFile(tmp, []byte(builder.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write vbv table: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace vbv table: %w", err)
	}
	return nil
}
