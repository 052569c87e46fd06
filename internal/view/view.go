// Package view holds the page controllers: each one owns its local state,
// talks to the API through the services and reports outcomes to a Notifier.
// A failed action never changes the state it started from.
package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/service"
	"github.com/psds-microservice/helpdesk-cli/internal/session"
)

// Notifier shows blocking success/error messages to the user.
type Notifier interface {
	Success(title, text string)
	Error(title, text string)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type nopNotifier struct{}

func (nopNotifier) Success(string, string) {}
func (nopNotifier) Error(string, string)   {}

const (
	titleError = "Error!"

	textGeneric       = "Something went wrong. Please try again."
	textFillFields    = "Please fill all the fields!"
	textEmptyComment  = "Comment cannot be empty."
	textNoUserName    = "User name not found. Please log in again."
	textNotLoggedIn   = "You are not logged in."
	textTerminal      = "This ticket is closed and its status can no longer be changed."
	textInvalidStatus = "Please choose a valid status."
)

// Deps are shared by every controller.
type Deps struct {
	TicketAPI service.TicketServicer
	DeviceAPI service.DeviceServicer
	Sessions  session.Provider
	Notifier  Notifier
	Now       func() time.Time

	// SummaryWords caps the first-comment summary on the owner list.
	SummaryWords int
	// PreviewRunes caps the first-comment preview on the admin list.
	PreviewRunes int
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.SummaryWords <= 0 {
		d.SummaryWords = 8
	}
	if d.PreviewRunes <= 0 {
		d.PreviewRunes = 30
	}
	return d
}

// page is embedded by every controller. Its context lives as long as the
// page; results that land after Close are dropped.
type page struct {
	Deps
	ctx    context.Context
	cancel context.CancelFunc

	op sync.Mutex   // one outstanding call per page
	mu sync.RWMutex // guards the embedding controller's state
}

func (p *page) init(parent context.Context, d Deps) {
	p.Deps = d.withDefaults()
	p.ctx, p.cancel = context.WithCancel(parent)
}

// Close cancels any in-flight call; the page must not be used afterwards.
func (p *page) Close() { p.cancel() }

// begin serializes calls and returns the page context, or an error once closed.
func (p *page) begin() (context.Context, func(), error) {
	p.op.Lock()
	if err := p.ctx.Err(); err != nil {
		p.op.Unlock()
		return nil, nil, err
	}
	return p.ctx, p.op.Unlock, nil
}

// fail notifies unless the page was closed underneath the call.
func (p *page) fail(text string, err error) error {
	if p.ctx.Err() != nil {
		return p.ctx.Err()
	}
	p.Notifier.Error(titleError, text)
	return err
}

var validate = validator.New()

func oneOf(values []string) string {
	return "omitempty,oneof=" + strings.Join(values, " ")
}

// newComment builds a comment authored by the current session user.
func newComment(sessions session.Provider, text string, now time.Time) (model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, errs.ErrEmptyComment
	}
	s, ok := sessions.Session()
	if !ok || strings.TrimSpace(s.UserName) == "" {
		return model.Comment{}, errs.ErrMissingUserName
	}
	return model.Comment{Comment: text, Date: now, UserName: s.UserName, AuthorRole: string(s.Role)}, nil
}

func commentErrorText(err error) string {
	if errors.Is(err, errs.ErrEmptyComment) {
		return textEmptyComment
	}
	return textNoUserName
}

// replaceByID returns a copy of items with the entry matching t.ID swapped for t.
func replaceByID(items []model.Ticket, t model.Ticket) []model.Ticket {
	out := make([]model.Ticket, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == t.ID {
			out[i] = t
		}
	}
	return out
}

func findByID(items []model.Ticket, id string) (model.Ticket, bool) {
	for _, t := range items {
		if t.ID == id {
			return t, true
		}
	}
	return model.Ticket{}, false
}
