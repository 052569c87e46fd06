package model

import (
	"encoding/json"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want TicketStatus
		ok   bool
	}{
		{"pending", TicketStatusPending, true},
		{" In Progress ", TicketStatusInProgress, true},
		{"CLOSED", TicketStatusClosed, true},
		{"in-progress", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseStatus(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range TicketStatuses {
		want := s == TicketStatusSolved || s == TicketStatusClosed || s == TicketStatusRejected
		if s.Terminal() != want {
			t.Errorf("%s.Terminal() = %v", s, !want)
		}
	}
}

func TestPriority(t *testing.T) {
	if p, ok := ParsePriority("medium"); !ok || p != PriorityMedium {
		t.Fatalf("ParsePriority = %q, %v", p, ok)
	}
	if _, ok := ParsePriority("urgent"); ok {
		t.Fatal("urgent accepted")
	}
	stars := map[Priority]int{PriorityHigh: 3, PriorityMedium: 2, PriorityLow: 1, "": 0}
	for p, want := range stars {
		if got := p.Stars(); got != want {
			t.Errorf("%q.Stars() = %d, want %d", p, got, want)
		}
	}
}

func TestTicketIDAlias(t *testing.T) {
	var a, b Ticket
	if err := json.Unmarshal([]byte(`{"_id":"x1","status":"Pending"}`), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`{"id":"x2","priority":"Low"}`), &b); err != nil {
		t.Fatal(err)
	}
	if a.ID != "x1" || a.Status != TicketStatusPending {
		t.Fatalf("a=%+v", a)
	}
	if b.ID != "x2" || b.Priority != PriorityLow {
		t.Fatalf("b=%+v", b)
	}
}

func TestCommentsWith(t *testing.T) {
	base := Ticket{AdditionalInfo: make([]Comment, 1, 4)}
	base.AdditionalInfo[0] = Comment{Comment: "first"}

	got := base.CommentsWith(Comment{Comment: "second"})
	if len(got) != 2 || got[0].Comment != "first" || got[1].Comment != "second" {
		t.Fatalf("got=%+v", got)
	}
	got[0].Comment = "changed"
	if base.AdditionalInfo[0].Comment != "first" || len(base.AdditionalInfo) != 1 {
		t.Fatal("base ticket modified")
	}
}

func TestFirstComment(t *testing.T) {
	if _, ok := (Ticket{}).FirstComment(); ok {
		t.Fatal("empty ticket has a first comment")
	}
	text, ok := Ticket{AdditionalInfo: []Comment{{Comment: "hi"}, {Comment: "there"}}}.FirstComment()
	if !ok || text != "hi" {
		t.Fatalf("got %q %v", text, ok)
	}
}

func TestCommentDateTolerant(t *testing.T) {
	body := `[
		{"_id":"a","additionalInfo":[{"comment":"ok","date":"2024-06-01T09:30:00.123Z","userName":"Ann"}]},
		{"_id":"b","additionalInfo":[{"comment":"empty","date":""},{"comment":"bad","date":"yesterday"}]},
		{"_id":"c","additionalInfo":[{"comment":"null","date":null},{"comment":"missing"},{"comment":"number","date":17}]}
	]`
	var items []Ticket
	if err := json.Unmarshal([]byte(body), &items); err != nil {
		t.Fatalf("list rejected: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d tickets", len(items))
	}
	first := items[0].AdditionalInfo[0]
	if first.Date.IsZero() || first.Date.Nanosecond() != 123000000 || first.UserName != "Ann" {
		t.Fatalf("valid date lost: %+v", first)
	}
	for _, tk := range items[1:] {
		for _, c := range tk.AdditionalInfo {
			if !c.Date.IsZero() {
				t.Errorf("%s: date=%v, want zero", c.Comment, c.Date)
			}
			if c.Comment == "" {
				t.Error("comment text lost")
			}
		}
	}
}
