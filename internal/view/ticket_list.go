package view

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/psds-microservice/helpdesk-cli/internal/access"
	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/textutil"
)

// Filter narrows the admin list. Empty fields match everything.
type Filter struct {
	Priority model.Priority
	Status   model.TicketStatus
}

// FilterSort keeps tickets matching every set dimension. When a dimension is
// set the result is ordered by it, priority first; with no filter the input
// order is kept.
func FilterSort(items []model.Ticket, f Filter) []model.Ticket {
	out := make([]model.Ticket, 0, len(items))
	for _, t := range items {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		out = append(out, t)
	}
	switch {
	case f.Priority != "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	case f.Status != "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	}
	return out
}

// Paginate returns the zero-based page of items. A non-positive size means
// everything; a page past the end is empty.
func Paginate[T any](items []T, page, size int) []T {
	if size <= 0 {
		return items
	}
	if page < 0 {
		return nil
	}
	start := page * size
	if start >= len(items) {
		return nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// PageCount is the number of pages needed for n items.
func PageCount(n, size int) int {
	if size <= 0 || n == 0 {
		return 1
	}
	return (n + size - 1) / size
}

// StatusModal is the change-status dialog seeded with the current status.
type StatusModal struct {
	TicketID string
	Current  model.TicketStatus
	Selected model.TicketStatus
}

// TicketList is the staff overview of every ticket.
type TicketList struct {
	page
	tickets []model.Ticket
	filter  Filter
	modal   *StatusModal
}

func NewTicketList(ctx context.Context, d Deps) *TicketList {
	l := &TicketList{}
	l.init(ctx, d)
	return l
}

// Load fetches all tickets; the server scopes them by role.
func (l *TicketList) Load() error {
	ctx, done, err := l.begin()
	if err != nil {
		return err
	}
	defer done()

	items, err := l.TicketAPI.All(ctx)
	if err != nil {
		return l.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	l.mu.Lock()
	l.tickets = items
	l.mu.Unlock()
	return nil
}

// SetPriorityFilter sets or, with "", clears the priority filter.
func (l *TicketList) SetPriorityFilter(v string) error {
	var p model.Priority
	if strings.TrimSpace(v) != "" {
		var ok bool
		if p, ok = model.ParsePriority(v); !ok {
			return fmt.Errorf("%w: %q", errs.ErrInvalidPriority, v)
		}
	}
	l.mu.Lock()
	l.filter.Priority = p
	l.mu.Unlock()
	return nil
}

// SetStatusFilter sets or, with "", clears the status filter.
func (l *TicketList) SetStatusFilter(v string) error {
	var s model.TicketStatus
	if strings.TrimSpace(v) != "" {
		var ok bool
		if s, ok = model.ParseStatus(v); !ok {
			return fmt.Errorf("%w: %q", errs.ErrInvalidStatus, v)
		}
	}
	l.mu.Lock()
	l.filter.Status = s
	l.mu.Unlock()
	return nil
}

func (l *TicketList) Filter() Filter {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.filter
}

// Visible is the filtered and sorted list, before pagination.
func (l *TicketList) Visible() []model.Ticket {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return FilterSort(l.tickets, l.filter)
}

// Page applies client-side pagination to Visible.
func (l *TicketList) Page(page, size int) []model.Ticket {
	return Paginate(l.Visible(), page, size)
}

// Preview shortens the first comment for a table cell.
func (l *TicketList) Preview(t model.Ticket) string {
	text, ok := t.FirstComment()
	if !ok {
		return "No comments available"
	}
	return textutil.Truncate(text, l.PreviewRunes)
}

// View returns the details route for id.
func (l *TicketList) View(id string) string {
	return access.TicketRoute(id)
}

// OpenStatusModal starts a status change for id.
func (l *TicketList) OpenStatusModal(id string) (StatusModal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	t, ok := findByID(l.tickets, id)
	if !ok {
		return StatusModal{}, fmt.Errorf("%w: %s", errs.ErrTicketNotFound, id)
	}
	l.modal = &StatusModal{TicketID: id, Current: t.Status, Selected: t.Status}
	return *l.modal, nil
}

func (l *TicketList) SelectStatus(v string) error {
	s, ok := model.ParseStatus(v)
	if !ok {
		l.Notifier.Error(titleError, textInvalidStatus)
		return fmt.Errorf("%w: %q", errs.ErrInvalidStatus, v)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.modal == nil {
		return errs.ErrNotLoaded
	}
	l.modal.Selected = s
	return nil
}

func (l *TicketList) CancelStatusModal() {
	l.mu.Lock()
	l.modal = nil
	l.mu.Unlock()
}

// SubmitStatus sends the selected status and patches the list entry with
// the same id. Tickets already in a final status are refused locally.
func (l *TicketList) SubmitStatus() (model.Ticket, error) {
	ctx, done, err := l.begin()
	if err != nil {
		return model.Ticket{}, err
	}
	defer done()

	l.mu.RLock()
	modal := l.modal
	var (
		base     model.Ticket
		selected model.TicketStatus
		ok       bool
	)
	if modal != nil {
		base, ok = findByID(l.tickets, modal.TicketID)
		selected = modal.Selected
	}
	l.mu.RUnlock()
	if modal == nil {
		return model.Ticket{}, errs.ErrNotLoaded
	}
	if !ok {
		return model.Ticket{}, fmt.Errorf("%w: %s", errs.ErrTicketNotFound, modal.TicketID)
	}
	if base.Status.Terminal() {
		l.Notifier.Error(titleError, textTerminal)
		return model.Ticket{}, fmt.Errorf("%w: %s", errs.ErrTerminalStatus, base.Status)
	}

	t, err := l.TicketAPI.UpdateStatus(ctx, base, selected)
	if err != nil {
		return model.Ticket{}, l.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return model.Ticket{}, ctx.Err()
	}
	l.mu.Lock()
	l.tickets = replaceByID(l.tickets, *t)
	// A modal opened while this call was in flight stays open.
	if l.modal == modal {
		l.modal = nil
	}
	l.mu.Unlock()
	l.Notifier.Success("Status updated", fmt.Sprintf("Ticket is now %s.", t.Status))
	return *t, nil
}
