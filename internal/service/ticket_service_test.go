package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/psds-microservice/helpdesk-cli/internal/apiclient"
	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/session"
	"github.com/psds-microservice/helpdesk-cli/internal/testserver"
)

func newService(t *testing.T) (*TicketService, *testserver.Server) {
	t.Helper()
	srv := testserver.New()
	t.Cleanup(srv.Close)
	sessions := session.NewStatic(session.Session{UserID: "u1", UserName: "Ann", Role: session.RoleAdmin, Token: "tok"})
	return NewTicketService(apiclient.New(srv.URL, sessions, zerolog.Nop())), srv
}

func comment(text string) model.Comment {
	return model.Comment{Comment: text, Date: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), UserName: "Ann"}
}

func TestUpdateStatusEchoesComments(t *testing.T) {
	svc, srv := newService(t)
	base := model.Ticket{ID: "t9", Status: model.TicketStatusPending, Priority: model.PriorityLow,
		AdditionalInfo: []model.Comment{comment("first"), comment("second")}}
	srv.Seed(base)

	got, err := svc.UpdateStatus(context.Background(), base, model.TicketStatusInProgress)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != model.TicketStatusInProgress || len(got.AdditionalInfo) != 2 {
		t.Fatalf("got %+v", got)
	}

	puts := srv.RequestsTo(http.MethodPut, "/tickets/t9")
	if len(puts) != 1 {
		t.Fatalf("puts=%d", len(puts))
	}
	body := puts[0].Body
	if body["status"] != "In progress" {
		t.Fatalf("status sent=%v", body["status"])
	}
	info, ok := body["additionalInfo"].([]any)
	if !ok || len(info) != 2 {
		t.Fatalf("additionalInfo sent=%v", body["additionalInfo"])
	}
	stored, _ := srv.Ticket("t9")
	if len(stored.AdditionalInfo) != 2 {
		t.Fatalf("server lost comments: %+v", stored.AdditionalInfo)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, srv := newService(t)
	_, err := svc.UpdateStatus(context.Background(), model.Ticket{ID: "t1"}, "accepted")
	if !errors.Is(err, errs.ErrInvalidStatus) {
		t.Fatalf("err=%v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Fatal("no request expected for an invalid status")
	}
}

func TestAppendCommentKeepsOrderAndStatus(t *testing.T) {
	svc, srv := newService(t)
	base := model.Ticket{ID: "t3", Status: model.TicketStatusInProgress,
		AdditionalInfo: []model.Comment{comment("a"), comment("b")}}
	srv.Seed(base)

	got, err := svc.AppendComment(context.Background(), base, comment("c"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(got.AdditionalInfo) != len(base.AdditionalInfo)+1 {
		t.Fatalf("len=%d", len(got.AdditionalInfo))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got.AdditionalInfo[i].Comment != want {
			t.Fatalf("comment[%d]=%q want %q", i, got.AdditionalInfo[i].Comment, want)
		}
	}
	if len(base.AdditionalInfo) != 2 {
		t.Fatal("base ticket was mutated")
	}
	body := srv.RequestsTo(http.MethodPut, "/tickets/t3")[0].Body
	if body["status"] != "In progress" {
		t.Fatalf("status not echoed: %v", body["status"])
	}
}

func TestUpdateReplacesFields(t *testing.T) {
	svc, srv := newService(t)
	srv.Seed(model.Ticket{ID: "t5", Status: model.TicketStatusPending,
		AdditionalInfo: []model.Comment{comment("a"), comment("b")}})

	u := TicketUpdate{Status: model.TicketStatusRejected, AdditionalInfo: []model.Comment{comment("only")}}
	if err := svc.Update(context.Background(), "t5", u); err != nil {
		t.Fatalf("update: %v", err)
	}
	stored, _ := srv.Ticket("t5")
	if stored.Status != model.TicketStatusRejected || len(stored.AdditionalInfo) != 1 || stored.AdditionalInfo[0].Comment != "only" {
		t.Fatalf("stored=%+v", stored)
	}
	body := srv.RequestsTo(http.MethodPut, "/tickets/t5")[0].Body
	if body["status"] != "Rejected" || len(body["additionalInfo"].([]any)) != 1 {
		t.Fatalf("body=%v", body)
	}

	if err := svc.Update(context.Background(), "missing", u); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestCreatePostsDraft(t *testing.T) {
	svc, srv := newService(t)
	created, err := svc.Create(context.Background(), Draft{
		UserName: "Ann", Email: "ann@example.com", Department: "HR", Device: "Laptop", Priority: model.PriorityHigh,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Status != model.TicketStatusPending {
		t.Fatalf("created %+v", created)
	}
	body := srv.RequestsTo(http.MethodPost, "/tickets")[0].Body
	if info, ok := body["additionalInfo"].([]any); !ok || len(info) != 0 {
		t.Fatalf("additionalInfo=%v, want empty array", body["additionalInfo"])
	}
}

func TestGetAndDeleteNotFound(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Fatalf("get err=%v", err)
	}
	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Fatalf("delete err=%v", err)
	}
}

func TestAssignedDevices(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()
	srv.SeedDevices("u1", model.AssignedDevice{ID: "d1", Product: model.Product{ProductType: "Laptop", ProductCategory: "IT", Branch: "Tbilisi"}, Status: "assigned"})
	svc := NewDeviceService(apiclient.New(srv.URL, session.NewStatic(session.Session{Token: "x"}), zerolog.Nop()))

	got, err := svc.Assigned(context.Background(), "u1")
	if err != nil {
		t.Fatalf("assigned: %v", err)
	}
	if len(got) != 1 || got[0].Product.Branch != "Tbilisi" {
		t.Fatalf("got %+v", got)
	}
	if len(srv.RequestsTo(http.MethodGet, "/assignedProduct/getUserAssignedDevices/u1")) != 1 {
		t.Fatal("wrong endpoint")
	}
}
