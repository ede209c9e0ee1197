package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Account roles
const (
	RoleFree  = "FREE"
	RoleOwner = "OWNER"
)

// DefaultCredits is the registration bonus granted to new accounts
const DefaultCredits = 100

// Account is one registered bot user and their credit balance
type Account struct {
	ID           string `gorm:"primaryKey"`
	DisplayName  string
	Credits      int
	Role         string
	RegisteredAt time.Time
	LastActionAt time.Time
}

// Delta describes a state change to apply to an account. CreditsDelta may be
// negative; the resulting balance is clamped at zero. TouchCooldown stamps
// LastActionAt with Now.
type Delta struct {
	CreditsDelta  int
	TouchCooldown bool
	Now           time.Time
}

// AccountStore owns all account records. Every mutation is written through to
// the SQLite database before the call returns, and a single mutex serializes
// writers across dispatcher goroutines.
type AccountStore struct {
	db     *gorm.DB
	mu     sync.Mutex
	logger *zap.SugaredLogger
}

// OpenAccountStore opens (creating if needed) the account database at path
func OpenAccountStore(path string, log *zap.SugaredLogger) (*AccountStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open account database: %w", err)
	}

	if err := db.AutoMigrate(&Account{}); err != nil {
		return nil, fmt.Errorf("failed to migrate account schema: %w", err)
	}

	log.Infow("account store opened", "path", path)

	return &AccountStore{db: db, logger: log}, nil
}

// Get returns the account for userID, or ErrNotFound
func (s *AccountStore) Get(userID string) (*Account, error) {
	var account Account
	err := s.db.First(&account, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", userID, err)
	}
	return &account, nil
}

// Create registers a new account with the default credit balance and FREE
// role. Returns ErrAlreadyExists if the user is already registered.
func (s *AccountStore) Create(userID, displayName string, now time.Time) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Get(userID); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	account := &Account{
		ID:           userID,
		DisplayName:  displayName,
		Credits:      DefaultCredits,
		Role:         RoleFree,
		RegisteredAt: now,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", userID, err)
	}

	s.logger.Infow("account registered", "user", userID, "name", displayName)
	return account, nil
}

// ApplyDelta mutates the account and persists it before returning. The credit
// balance never goes below zero; callers are expected to have verified the
// balance via the preconditions before deducting.
func (s *AccountStore) ApplyDelta(userID string, delta Delta) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	account.Credits += delta.CreditsDelta
	if account.Credits < 0 {
		account.Credits = 0
	}
	if delta.TouchCooldown {
		account.LastActionAt = delta.Now
	}

	if err := s.db.Save(account).Error; err != nil {
		return nil, fmt.Errorf("failed to save account %s: %w", userID, err)
	}

	if delta.CreditsDelta != 0 {
		s.logger.Infow("credits adjusted", "user", userID, "delta", delta.CreditsDelta, "balance", account.Credits)
	}

	return account, nil
}

// SetRole updates the account role and persists it
func (s *AccountStore) SetRole(userID, role string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	account.Role = role
	if err := s.db.Save(account).Error; err != nil {
		return nil, fmt.Errorf("failed to save account %s: %w", userID, err)
	}

	return account, nil
}
