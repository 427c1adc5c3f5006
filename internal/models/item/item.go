package item

import "time"

type Item struct {
	ID        int64      `json:"id" db:"id"`
	Text      string     `json:"text" db:"text"`
	Status    Status     `json:"status" db:"status"`
	OwnerID   int64      `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	Version   int        `json:"version" db:"version"`
}

type Status int16

const StatusArchived Status = -1
const StatusOpen Status = 0
const StatusStarted Status = 1
const StatusDone Status = 2

func (s Status) String() string {
	switch s {
	case StatusArchived:
		return "archived"
	case StatusOpen:
		return "open"
	case StatusStarted:
		return "started"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// Active reports whether the status is one of the working states.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusStarted
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range []Status{StatusArchived, StatusOpen, StatusStarted, StatusDone} {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

type Tag struct {
	ID      int64  `json:"id" db:"id"`
	OwnerID int64  `json:"owner_id" db:"owner_id"`
	Text    string `json:"text" db:"text"`
	Color   string `json:"color" db:"color"`
}

type List struct {
	ID      int64  `json:"id" db:"id"`
	OwnerID int64  `json:"owner_id" db:"owner_id"`
	Name    string `json:"name" db:"name"`
}

// Associations holds the tags (ordered by text) and lists (ordered by name) of one item.
type Associations struct {
	Tags  []Tag
	Lists []List
}
