package model

import (
	"encoding/json"
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusInProgress TicketStatus = "In progress"
	TicketStatusSolved     TicketStatus = "Solved"
	TicketStatusClosed     TicketStatus = "Closed"
	TicketStatusRejected   TicketStatus = "Rejected"
)

// TicketStatuses — закрытый набор статусов в порядке жизненного цикла.
var TicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusSolved,
	TicketStatusClosed,
	TicketStatusRejected,
}

// Terminal reports whether no further status change is allowed.
func (s TicketStatus) Terminal() bool {
	switch s {
	case TicketStatusSolved, TicketStatusClosed, TicketStatusRejected:
		return true
	}
	return false
}

func (s TicketStatus) Valid() bool {
	for _, v := range TicketStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Stars maps priority onto a 3-star scale; unknown values get zero.
func (p Priority) Stars() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Option sets offered by the create form.
var (
	Departments = []string{"Admin", "HR", "Finance", "Marketing", "Developer"}
	Devices     = []string{"Laptop", "Monitor", "Keyboard", "Mouse", "Headphone", "Webcam", "Desktop-Items", "others"}
)

// Comment — элемент additionalInfo. Только добавляется, никогда не меняется.
type Comment struct {
	Comment    string    `json:"comment"`
	Date       time.Time `json:"date"`
	UserName   string    `json:"userName,omitempty"`
	AuthorRole string    `json:"authorRole,omitempty"`
}

// ByStaff reports whether the comment was left by an admin or superadmin.
func (c Comment) ByStaff() bool {
	return c.AuthorRole == "admin" || c.AuthorRole == "superadmin"
}

// UnmarshalJSON keeps the comment when its date is missing or malformed;
// such a date reads as the zero time.
func (c *Comment) UnmarshalJSON(data []byte) error {
	type plain Comment
	aux := struct {
		*plain
		Date json.RawMessage `json:"date"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Date = time.Time{}
	var raw string
	if json.Unmarshal(aux.Date, &raw) == nil {
		if d, err := time.Parse(time.RFC3339, raw); err == nil {
			c.Date = d
		}
	}
	return nil
}

type Ticket struct {
	ID             string       `json:"_id"`
	UserName       string       `json:"userName"`
	Email          string       `json:"email"`
	Department     string       `json:"department"`
	Device         string       `json:"device"`
	Priority       Priority     `json:"priority"`
	Status         TicketStatus `json:"status"`
	AdditionalInfo []Comment    `json:"additionalInfo"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// UnmarshalJSON accepts "id" as an alias for "_id".
func (t *Ticket) UnmarshalJSON(data []byte) error {
	type plain Ticket
	aux := struct {
		*plain
		AltID string `json:"id"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = aux.AltID
	}
	return nil
}

// FirstComment returns the text of the first additionalInfo entry.
func (t Ticket) FirstComment() (string, bool) {
	if len(t.AdditionalInfo) == 0 || t.AdditionalInfo[0].Comment == "" {
		return "", false
	}
	return t.AdditionalInfo[0].Comment, true
}

// CommentsWith returns a new slice with c appended; t is left untouched.
func (t Ticket) CommentsWith(c Comment) []Comment {
	out := make([]Comment, 0, len(t.AdditionalInfo)+1)
	out = append(out, t.AdditionalInfo...)
	return append(out, c)
}

type Product struct {
	ProductType     string `json:"productType"`
	ProductCategory string `json:"productCategory"`
	Branch          string `json:"branch"`
}

type AssignedDevice struct {
	ID        string    `json:"_id"`
	Product   Product   `json:"product"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParsePriority normalizes case; ok is false outside the closed set.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, true
		}
	}
	return "", false
}

// ParseStatus normalizes case; ok is false outside the closed set.
func ParseStatus(s string) (TicketStatus, bool) {
	for _, st := range TicketStatuses {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}
