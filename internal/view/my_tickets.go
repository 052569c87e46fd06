package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/textutil"
)

// MyTickets is the owner's view: their tickets, one opened detail, comments
// and deletion of tickets that are still pending.
type MyTickets struct {
	page
	tickets []model.Ticket
	detail  *model.Ticket
}

func NewMyTickets(ctx context.Context, d Deps) *MyTickets {
	m := &MyTickets{}
	m.init(ctx, d)
	return m
}

// Load fetches the caller's tickets; the server decides ownership from the token.
func (m *MyTickets) Load() error {
	ctx, done, err := m.begin()
	if err != nil {
		return err
	}
	defer done()

	items, err := m.TicketAPI.Mine(ctx)
	if err != nil {
		return m.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	m.tickets = items
	m.mu.Unlock()
	return nil
}

func (m *MyTickets) Tickets() []model.Ticket {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Ticket(nil), m.tickets...)
}

// Summary is the compact form of the first comment shown on list cards.
func (m *MyTickets) Summary(t model.Ticket) string {
	text, ok := t.FirstComment()
	if !ok {
		return "No comments"
	}
	return textutil.Summarize(text, m.SummaryWords)
}

// Open re-fetches the ticket so the detail view is never older than the server.
func (m *MyTickets) Open(id string) (model.Ticket, error) {
	ctx, done, err := m.begin()
	if err != nil {
		return model.Ticket{}, err
	}
	defer done()

	t, err := m.TicketAPI.Get(ctx, id)
	if err != nil {
		return model.Ticket{}, m.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return model.Ticket{}, ctx.Err()
	}
	m.mu.Lock()
	m.detail = t
	m.mu.Unlock()
	return *t, nil
}

// Detail returns the ticket opened last.
func (m *MyTickets) Detail() (model.Ticket, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.detail == nil {
		return model.Ticket{}, false
	}
	return *m.detail, true
}

// CloseDetail hides the detail view without cancelling the page.
func (m *MyTickets) CloseDetail() {
	m.mu.Lock()
	m.detail = nil
	m.mu.Unlock()
}

// AddComment appends to the opened ticket. Empty text or a session without a
// user name is refused before any request.
func (m *MyTickets) AddComment(text string) (model.Ticket, error) {
	if _, ok := m.Detail(); !ok {
		return model.Ticket{}, errs.ErrNotLoaded
	}
	c, err := newComment(m.Sessions, text, m.Now())
	if err != nil {
		m.Notifier.Error(titleError, commentErrorText(err))
		return model.Ticket{}, err
	}

	ctx, done, err := m.begin()
	if err != nil {
		return model.Ticket{}, err
	}
	defer done()

	// The detail may have moved on while this call waited for the lock.
	base, ok := m.Detail()
	if !ok {
		return model.Ticket{}, errs.ErrNotLoaded
	}
	t, err := m.TicketAPI.AppendComment(ctx, base, c)
	if err != nil {
		return model.Ticket{}, m.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return model.Ticket{}, ctx.Err()
	}
	m.mu.Lock()
	m.detail = t
	m.tickets = replaceByID(m.tickets, *t)
	m.mu.Unlock()
	m.Notifier.Success("Comment added", "Your comment has been added.")
	return *t, nil
}

// CanDelete is false for anything but a pending ticket; the action is not offered then.
func (m *MyTickets) CanDelete(t model.Ticket) bool {
	return t.Status == model.TicketStatusPending
}

// Delete removes a pending ticket after confirm approves it.
func (m *MyTickets) Delete(id string, confirm Confirmer) error {
	ctx, done, err := m.begin()
	if err != nil {
		return err
	}
	defer done()

	m.mu.RLock()
	t, ok := findByID(m.tickets, id)
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", errs.ErrTicketNotFound, id)
	}
	if !m.CanDelete(t) {
		return fmt.Errorf("%w: ticket %s is %s", errs.ErrNotDeletable, id, t.Status)
	}
	if confirm == nil || !confirm.Confirm(fmt.Sprintf("Delete ticket %s? This cannot be undone.", id)) {
		return errs.ErrNotConfirmed
	}

	if err := m.TicketAPI.Delete(ctx, id); err != nil {
		return m.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	m.mu.Lock()
	kept := make([]model.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.tickets = kept
	if m.detail != nil && m.detail.ID == id {
		m.detail = nil
	}
	m.mu.Unlock()
	m.Notifier.Success("Deleted!", "Your ticket has been deleted.")
	return nil
}

// IsUnavailable reports whether err means the action was never attempted.
func IsUnavailable(err error) bool {
	return errors.Is(err, errs.ErrNotDeletable) || errors.Is(err, errs.ErrNotConfirmed)
}
