package bot

import (
	"time"

	"go-checker-bot/store"
)

// Preconditions are pure checks over an account snapshot; the dispatcher
// evaluates them in a fixed order (registration, cooldown, credits) and
// short-circuits on the first failure.

// IsRegistered reports whether the sender has an account
func IsRegistered(account *store.Account) bool {
	return account != nil
}

// CooldownElapsed reports whether the account may run another
// credit-consuming command. A brand-new account with no prior action is
// treated as cooldown-elapsed.
func CooldownElapsed(account *store.Account, now time.Time, window time.Duration) bool {
	if account == nil || account.LastActionAt.IsZero() {
		return true
	}
	return now.Sub(account.LastActionAt) > window
}

// HasSufficientCredits reports whether the account can afford the cost
func HasSufficientCredits(account *store.Account, cost int) bool {
	return account != nil && account.Credits >= cost
}
