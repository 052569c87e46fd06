package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/psds-microservice/helpdesk-cli/internal/apiclient"
	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
)

// TicketServicer — интерфейс для view-контроллеров (подменяется в тестах).
type TicketServicer interface {
	Create(ctx context.Context, d Draft) (*model.Ticket, error)
	Mine(ctx context.Context) ([]model.Ticket, error)
	All(ctx context.Context) ([]model.Ticket, error)
	Get(ctx context.Context, id string) (*model.Ticket, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, base model.Ticket, status model.TicketStatus) (*model.Ticket, error)
	AppendComment(ctx context.Context, base model.Ticket, c model.Comment) (*model.Ticket, error)
	Update(ctx context.Context, id string, u TicketUpdate) error
}

// Draft is the create-ticket body. userName and email come from the session.
type Draft struct {
	UserName       string          `json:"userName"`
	Email          string          `json:"email"`
	Department     string          `json:"department"`
	Device         string          `json:"device"`
	Priority       model.Priority  `json:"priority"`
	AdditionalInfo []model.Comment `json:"additionalInfo"`
}

// TicketUpdate is the PUT body. The endpoint replaces every field that is
// present, so callers never build one by hand: see UpdateStatus and AppendComment.
type TicketUpdate struct {
	Status         model.TicketStatus `json:"status"`
	AdditionalInfo []model.Comment    `json:"additionalInfo"`
}

type TicketService struct {
	api apiclient.Requester
}

func NewTicketService(api apiclient.Requester) *TicketService {
	return &TicketService{api: api}
}

func ticketPath(id string) string {
	return "/tickets/" + url.PathEscape(id)
}

func (s *TicketService) Create(ctx context.Context, d Draft) (*model.Ticket, error) {
	if d.AdditionalInfo == nil {
		d.AdditionalInfo = []model.Comment{}
	}
	var t model.Ticket
	if err := s.api.Request(ctx, http.MethodPost, "/tickets", d, &t); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return &t, nil
}

func (s *TicketService) Mine(ctx context.Context) ([]model.Ticket, error) {
	var items []model.Ticket
	if err := s.api.Request(ctx, http.MethodGet, "/mytickets", nil, &items); err != nil {
		return nil, fmt.Errorf("list my tickets: %w", err)
	}
	return items, nil
}

func (s *TicketService) All(ctx context.Context) ([]model.Ticket, error) {
	var items []model.Ticket
	if err := s.api.Request(ctx, http.MethodGet, "/gettickets", nil, &items); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return items, nil
}

func (s *TicketService) Get(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	if err := s.api.Request(ctx, http.MethodGet, ticketPath(id), nil, &t); err != nil {
		if errs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrTicketNotFound, id)
		}
		return nil, fmt.Errorf("get ticket %s: %w", id, err)
	}
	return &t, nil
}

func (s *TicketService) Delete(ctx context.Context, id string) error {
	if err := s.api.Request(ctx, http.MethodDelete, ticketPath(id), nil, nil); err != nil {
		if errs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", errs.ErrTicketNotFound, id)
		}
		return fmt.Errorf("delete ticket %s: %w", id, err)
	}
	return nil
}

// UpdateStatus changes only the status but echoes base's comment log, so a
// status change never wipes comments.
func (s *TicketService) UpdateStatus(ctx context.Context, base model.Ticket, status model.TicketStatus) (*model.Ticket, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidStatus, status)
	}
	info := base.AdditionalInfo
	if info == nil {
		info = []model.Comment{}
	}
	return s.put(ctx, base, TicketUpdate{Status: status, AdditionalInfo: info})
}

// AppendComment sends base's log plus c and echoes base's status.
func (s *TicketService) AppendComment(ctx context.Context, base model.Ticket, c model.Comment) (*model.Ticket, error) {
	return s.put(ctx, base, TicketUpdate{Status: base.Status, AdditionalInfo: base.CommentsWith(c)})
}

// Update is the raw replacing write: both fields of u overwrite the stored
// ticket. Prefer UpdateStatus and AppendComment, which build u from a base.
func (s *TicketService) Update(ctx context.Context, id string, u TicketUpdate) error {
	if err := s.api.Request(ctx, http.MethodPut, ticketPath(id), u, nil); err != nil {
		if errs.IsNotFound(err) {
			return fmt.Errorf("%w: %s", errs.ErrTicketNotFound, id)
		}
		return fmt.Errorf("update ticket %s: %w", id, err)
	}
	return nil
}

func (s *TicketService) put(ctx context.Context, base model.Ticket, u TicketUpdate) (*model.Ticket, error) {
	if err := s.Update(ctx, base.ID, u); err != nil {
		return nil, err
	}
	// Local state takes exactly what was sent; some backends answer with the
	// pre-update document.
	merged := base
	merged.Status = u.Status
	merged.AdditionalInfo = u.AdditionalInfo
	return &merged, nil
}
