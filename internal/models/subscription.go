package models

import "time"

// PushSubscription is a stored three-part web-push credential. Expired
// endpoints (delivery 404/410) are deleted as a side effect of a failed
// send.
type PushSubscription struct {
	ID        int64
	UserID    string
	Endpoint  string
	P256dh    string
	Auth      string
	CreatedAt time.Time
}
