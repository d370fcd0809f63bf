package ratelimit

import (
	"errors"
	"time"
)

// ErrNoActiveWindow signals that no window row covers the current instant,
// so a fresh one must be started.
var ErrNoActiveWindow = errors.New("no active rate limit window")

// Window is the single counter row per (identifier, endpoint) pair. The
// identifier is the authenticated user id, or a hashed client IP otherwise.
type Window struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"-"`
	Identifier   string     `gorm:"size:64;uniqueIndex:ux_rate_limit_pair,priority:1;not null" json:"identifier"`
	Endpoint     string     `gorm:"size:64;uniqueIndex:ux_rate_limit_pair,priority:2;not null" json:"endpoint"`
	WindowStart  time.Time  `json:"window_start"`
	WindowEnd    time.Time  `json:"window_end"`
	RequestCount int        `json:"request_count"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}

func (Window) TableName() string { return "rate_limit_windows" }
