package activity

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single activity-log row for an account.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filters narrows an activity listing. Zero values mean "no filter".
type Filters struct {
	Action    string
	StartDate time.Time
	EndDate   time.Time
}

// keepPerAccount is how many entries survive pruning for each account.
const keepPerAccount = 10
