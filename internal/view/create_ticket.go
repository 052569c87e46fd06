package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/service"
)

var (
	departmentTag = oneOf(model.Departments)
	deviceTag     = oneOf(model.Devices)
)

// CreateTicket is the create-ticket form. User name and email come from the
// session and cannot be edited; everything else is validated by the server.
type CreateTicket struct {
	page
	draft service.Draft
}

func NewCreateTicket(ctx context.Context, d Deps) *CreateTicket {
	c := &CreateTicket{}
	c.init(ctx, d)
	if s, ok := c.Sessions.Session(); ok {
		c.draft.UserName = s.UserName
		c.draft.Email = s.Email
	}
	return c
}

// Draft returns a copy of the form as it would be submitted.
func (c *CreateTicket) Draft() service.Draft {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d := c.draft
	d.AdditionalInfo = append([]model.Comment(nil), c.draft.AdditionalInfo...)
	return d
}

func (c *CreateTicket) SetDepartment(v string) error {
	if err := validate.Var(v, departmentTag); err != nil {
		return fmt.Errorf("department %q: choose one of %s", v, strings.Join(model.Departments, ", "))
	}
	c.mu.Lock()
	c.draft.Department = v
	c.mu.Unlock()
	return nil
}

// SetDevice picks the device; clearing it also drops the additional info,
// which is only offered once a device is chosen.
func (c *CreateTicket) SetDevice(v string) error {
	if err := validate.Var(v, deviceTag); err != nil {
		return fmt.Errorf("device %q: choose one of %s", v, strings.Join(model.Devices, ", "))
	}
	c.mu.Lock()
	c.draft.Device = v
	if v == "" {
		c.draft.AdditionalInfo = nil
	}
	c.mu.Unlock()
	return nil
}

func (c *CreateTicket) SetPriority(v string) error {
	if v == "" {
		c.mu.Lock()
		c.draft.Priority = ""
		c.mu.Unlock()
		return nil
	}
	p, ok := model.ParsePriority(v)
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrInvalidPriority, v)
	}
	c.mu.Lock()
	c.draft.Priority = p
	c.mu.Unlock()
	return nil
}

// AdditionalInfoEnabled reports whether the additional info field is available.
func (c *CreateTicket) AdditionalInfoEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.draft.Device != ""
}

// SetAdditionalInfo wraps text as the ticket's single opening comment.
func (c *CreateTicket) SetAdditionalInfo(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.Device == "" {
		return errs.ErrDeviceRequired
	}
	if text == "" {
		c.draft.AdditionalInfo = nil
		return nil
	}
	c.draft.AdditionalInfo = []model.Comment{{
		Comment:  text,
		Date:     c.Now(),
		UserName: c.draft.UserName,
	}}
	return nil
}

// Submit posts the draft. Every failure is reported the same way since the
// server does the real validation.
func (c *CreateTicket) Submit() (*model.Ticket, error) {
	ctx, done, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	t, err := c.TicketAPI.Create(ctx, c.Draft())
	if err != nil {
		return nil, c.fail(textFillFields, err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.Notifier.Success("Ticket Created!", "Your ticket has been created successfully!")
	return t, nil
}
