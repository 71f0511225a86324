package models

import (
	"fmt"
	"time"
)

// User is a player account. Guests carry a generated token and no
// credentials; conversion to a registered account attaches email and a
// password hash and is one-way.
type User struct {
	ID           string
	Username     string
	Email        string // empty for guests
	PasswordHash string // empty for guests
	IsGuest      bool
	GuestToken   string // random token identifying a guest session
	DeviceID     string
	IPAddress    string
	CreatedAt    time.Time
	ConvertedAt  *time.Time
}

// CanConvert reports whether the guest -> registered transition is
// still available for this account.
func (u *User) CanConvert() error {
	if !u.IsGuest {
		return fmt.Errorf("account %s is already registered", u.ID)
	}
	if u.ConvertedAt != nil {
		return fmt.Errorf("account %s was already converted", u.ID)
	}
	return nil
}
