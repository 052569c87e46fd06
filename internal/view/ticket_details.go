package view

import (
	"context"
	"fmt"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
)

// Side is where a comment sits in the thread.
type Side int

const (
	SideLeft  Side = iota // requester
	SideRight             // staff
)

type ThreadEntry struct {
	model.Comment
	Side Side
}

// TicketDetails is the staff page for one ticket: status changes and replies.
type TicketDetails struct {
	page
	id     string
	ticket *model.Ticket
}

func NewTicketDetails(ctx context.Context, d Deps, id string) *TicketDetails {
	t := &TicketDetails{id: id}
	t.init(ctx, d)
	return t
}

func (p *TicketDetails) Load() error {
	ctx, done, err := p.begin()
	if err != nil {
		return err
	}
	defer done()

	t, err := p.TicketAPI.Get(ctx, p.id)
	if err != nil {
		return p.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.mu.Lock()
	p.ticket = t
	p.mu.Unlock()
	return nil
}

func (p *TicketDetails) Ticket() (model.Ticket, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.ticket == nil {
		return model.Ticket{}, false
	}
	return *p.ticket, true
}

// Thread lays the comment log out with staff replies on the right.
func (p *TicketDetails) Thread() []ThreadEntry {
	t, ok := p.Ticket()
	if !ok {
		return nil
	}
	return ThreadOf(t)
}

// ThreadOf places each comment of t on its side of the conversation.
func ThreadOf(t model.Ticket) []ThreadEntry {
	out := make([]ThreadEntry, 0, len(t.AdditionalInfo))
	for _, c := range t.AdditionalInfo {
		side := SideLeft
		if c.ByStaff() {
			side = SideRight
		}
		out = append(out, ThreadEntry{Comment: c, Side: side})
	}
	return out
}

// UpdateStatus changes the status, echoing the current comment log. A ticket
// in a final status is refused without a request.
func (p *TicketDetails) UpdateStatus(v string) (model.Ticket, error) {
	status, ok := model.ParseStatus(v)
	if !ok {
		p.Notifier.Error(titleError, textInvalidStatus)
		return model.Ticket{}, fmt.Errorf("%w: %q", errs.ErrInvalidStatus, v)
	}

	ctx, done, err := p.begin()
	if err != nil {
		return model.Ticket{}, err
	}
	defer done()

	// base is read under the call lock so a queued call sees the previous one's result.
	base, ok := p.Ticket()
	if !ok {
		return model.Ticket{}, errs.ErrNotLoaded
	}
	if base.Status.Terminal() {
		p.Notifier.Error(titleError, textTerminal)
		return model.Ticket{}, fmt.Errorf("%w: %s", errs.ErrTerminalStatus, base.Status)
	}

	t, err := p.TicketAPI.UpdateStatus(ctx, base, status)
	if err != nil {
		return model.Ticket{}, p.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return model.Ticket{}, ctx.Err()
	}
	p.mu.Lock()
	p.ticket = t
	p.mu.Unlock()
	p.Notifier.Success("Ticket updated", fmt.Sprintf("Status changed to %s.", t.Status))
	return *t, nil
}

// AddComment appends a reply, echoing the current status.
func (p *TicketDetails) AddComment(text string) (model.Ticket, error) {
	if _, ok := p.Ticket(); !ok {
		return model.Ticket{}, errs.ErrNotLoaded
	}
	c, err := newComment(p.Sessions, text, p.Now())
	if err != nil {
		p.Notifier.Error(titleError, commentErrorText(err))
		return model.Ticket{}, err
	}

	ctx, done, err := p.begin()
	if err != nil {
		return model.Ticket{}, err
	}
	defer done()

	base, _ := p.Ticket()
	t, err := p.TicketAPI.AppendComment(ctx, base, c)
	if err != nil {
		return model.Ticket{}, p.fail(textGeneric, err)
	}
	if ctx.Err() != nil {
		return model.Ticket{}, ctx.Err()
	}
	p.mu.Lock()
	p.ticket = t
	p.mu.Unlock()
	p.Notifier.Success("Comment added", "Your reply has been added.")
	return *t, nil
}
