package view

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/service"
)

// heldTickets blocks the first call to method until release is closed.
type heldTickets struct {
	service.TicketServicer
	method  string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func holdFirst(next service.TicketServicer, method string) *heldTickets {
	return &heldTickets{
		TicketServicer: next,
		method:         method,
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
}

func (h *heldTickets) hold(method string) {
	if method != h.method {
		return
	}
	h.once.Do(func() {
		close(h.entered)
		<-h.release
	})
}

func (h *heldTickets) AppendComment(ctx context.Context, base model.Ticket, c model.Comment) (*model.Ticket, error) {
	h.hold("AppendComment")
	return h.TicketServicer.AppendComment(ctx, base, c)
}

func (h *heldTickets) UpdateStatus(ctx context.Context, base model.Ticket, s model.TicketStatus) (*model.Ticket, error) {
	h.hold("UpdateStatus")
	return h.TicketServicer.UpdateStatus(ctx, base, s)
}

// queued lets a second call reach the page's call lock before the first is released.
const queued = 50 * time.Millisecond

func TestTicketDetailsQueuedStatusKeepsComment(t *testing.T) {
	f := newFixture(t, admin)
	f.srv.Seed(model.Ticket{ID: "d1", Status: model.TicketStatusPending,
		AdditionalInfo: []model.Comment{{Comment: "first", UserName: "Ann", AuthorRole: "user"}}})
	held := holdFirst(f.deps.TicketAPI, "AppendComment")
	f.deps.TicketAPI = held

	p := NewTicketDetails(context.Background(), f.deps, "d1")
	defer p.Close()
	if err := p.Load(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var commentErr, statusErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, commentErr = p.AddComment("second")
	}()
	<-held.entered
	go func() {
		defer wg.Done()
		_, statusErr = p.UpdateStatus("In progress")
	}()
	time.Sleep(queued)
	close(held.release)
	wg.Wait()

	if commentErr != nil || statusErr != nil {
		t.Fatalf("comment err=%v status err=%v", commentErr, statusErr)
	}
	stored, _ := f.srv.Ticket("d1")
	local, _ := p.Ticket()
	if len(stored.AdditionalInfo) != 2 || len(local.AdditionalInfo) != 2 {
		t.Fatalf("server comments=%d local comments=%d, want 2", len(stored.AdditionalInfo), len(local.AdditionalInfo))
	}
	if stored.Status != model.TicketStatusInProgress || local.Status != model.TicketStatusInProgress {
		t.Fatalf("server status=%s local status=%s", stored.Status, local.Status)
	}
}

func TestMyTicketsQueuedCommentsBothKept(t *testing.T) {
	f := newFixture(t, ann)
	seedOwned(f)
	held := holdFirst(f.deps.TicketAPI, "AppendComment")
	f.deps.TicketAPI = held

	m := NewMyTickets(context.Background(), f.deps)
	defer m.Close()
	_ = m.Load()
	if _, err := m.Open("p1"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = m.AddComment("one")
	}()
	<-held.entered
	go func() {
		defer wg.Done()
		_, _ = m.AddComment("two")
	}()
	time.Sleep(queued)
	close(held.release)
	wg.Wait()

	stored, _ := f.srv.Ticket("p1")
	if len(stored.AdditionalInfo) != 3 {
		t.Fatalf("server has %d comments, want 3", len(stored.AdditionalInfo))
	}
	d, _ := m.Detail()
	if len(d.AdditionalInfo) != 3 {
		t.Fatalf("detail has %d comments, want 3", len(d.AdditionalInfo))
	}
}

func TestTicketListQueuedSubmitSeesFinalStatus(t *testing.T) {
	f := newFixture(t, admin)
	seedAll(f)
	held := holdFirst(f.deps.TicketAPI, "UpdateStatus")
	f.deps.TicketAPI = held

	l := NewTicketList(context.Background(), f.deps)
	defer l.Close()
	if err := l.Load(); err != nil {
		t.Fatal(err)
	}

	_, _ = l.OpenStatusModal("a")
	_ = l.SelectStatus("Solved")
	var wg sync.WaitGroup
	var firstErr, secondErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = l.SubmitStatus()
	}()
	<-held.entered

	// A second change to the same ticket is prepared while the first is in flight.
	_, _ = l.OpenStatusModal("a")
	_ = l.SelectStatus("In progress")
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, secondErr = l.SubmitStatus()
	}()
	time.Sleep(queued)
	close(held.release)
	wg.Wait()

	if firstErr != nil {
		t.Fatalf("first submit: %v", firstErr)
	}
	if !errors.Is(secondErr, errs.ErrTerminalStatus) {
		t.Fatalf("second submit err=%v, want terminal status", secondErr)
	}
	if n := len(f.srv.RequestsTo(http.MethodPut, "/tickets/a")); n != 1 {
		t.Fatalf("puts=%d, want 1", n)
	}
	got, _ := findByID(l.Visible(), "a")
	stored, _ := f.srv.Ticket("a")
	if got.Status != model.TicketStatusSolved || stored.Status != model.TicketStatusSolved {
		t.Fatalf("local=%s server=%s", got.Status, stored.Status)
	}
	if len(got.AdditionalInfo) != 1 || len(stored.AdditionalInfo) != 1 {
		t.Fatal("comments lost")
	}
}
