// Package testserver is an in-memory stand-in for the helpdesk REST API used
// by tests. It records every request so tests can assert on what was sent.
package testserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/psds-microservice/helpdesk-cli/internal/model"
)

// Recorded is one request as the server saw it.
type Recorded struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	Accept        string
	RequestID     string
	Body          map[string]any
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	tickets  []model.Ticket
	owners   map[string]string // token -> userName
	devices  map[string][]model.AssignedDevice
	requests []Recorded
	failures map[string]int // "METHOD path" -> status
	nextID   int
}

// New starts a server; call Close when done.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		owners:   make(map[string]string),
		devices:  make(map[string][]model.AssignedDevice),
		failures: make(map[string]int),
		nextID:   1,
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.inject)
	r.POST("/tickets", s.create)
	r.GET("/mytickets", s.mine)
	r.GET("/gettickets", s.all)
	r.GET("/tickets/:id", s.get)
	r.PUT("/tickets/:id", s.update)
	r.DELETE("/tickets/:id", s.remove)
	r.GET("/assignedProduct/getUserAssignedDevices/:userId", s.assigned)
	return r
}

// AddOwner maps a bearer token to the user name /mytickets filters by.
func (s *Server) AddOwner(token, userName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[token] = userName
}

// Seed appends tickets in order, assigning ids where missing.
func (s *Server) Seed(tickets ...model.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tickets {
		if t.ID == "" {
			t.ID = s.newID()
		}
		s.tickets = append(s.tickets, t)
	}
}

func (s *Server) SeedDevices(userID string, devices ...model.AssignedDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices[userID] = append(s.devices[userID], devices...)
}

// FailNext makes the next request matching method and path answer status.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// RequestsTo filters recorded requests by method and path.
func (s *Server) RequestsTo(method, path string) []Recorded {
	var out []Recorded
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) Ticket(id string) (model.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.tickets[i], true
	}
	return model.Ticket{}, false
}

func (s *Server) newID() string {
	id := "t" + strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

func (s *Server) index(id string) int {
	for i := range s.tickets {
		if s.tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) record(c *gin.Context) {
	raw, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	rec := Recorded{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.GetHeader("Content-Type"),
		Accept:        c.GetHeader("Accept"),
		RequestID:     c.GetHeader("X-Request-ID"),
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}
	s.mu.Lock()
	s.requests = append(s.requests, rec)
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	key := c.Request.Method + " " + c.Request.URL.Path
	s.mu.Lock()
	status, ok := s.failures[key]
	delete(s.failures, key)
	s.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"message": "injected failure"})
		return
	}
	c.Next()
}

func (s *Server) caller(c *gin.Context) string {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owners[token]
}

type createTicketRequest struct {
	UserName       string          `json:"userName"`
	Email          string          `json:"email"`
	Department     string          `json:"department" binding:"required"`
	Device         string          `json:"device" binding:"required"`
	Priority       model.Priority  `json:"priority" binding:"required"`
	AdditionalInfo []model.Comment `json:"additionalInfo"`
}

func (s *Server) create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	t := model.Ticket{
		ID:             s.newID(),
		UserName:       req.UserName,
		Email:          req.Email,
		Department:     req.Department,
		Device:         req.Device,
		Priority:       req.Priority,
		Status:         model.TicketStatusPending,
		AdditionalInfo: req.AdditionalInfo,
		CreatedAt:      time.Now().UTC(),
	}
	if t.AdditionalInfo == nil {
		t.AdditionalInfo = []model.Comment{}
	}
	s.tickets = append(s.tickets, t)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, t)
}

func (s *Server) mine(c *gin.Context) {
	owner := s.caller(c)
	if owner == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	s.mu.Lock()
	out := []model.Ticket{}
	for _, t := range s.tickets {
		if t.UserName == owner {
			out = append(out, t)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) all(c *gin.Context) {
	s.mu.Lock()
	out := append([]model.Ticket{}, s.tickets...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) get(c *gin.Context) {
	t, ok := s.Ticket(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "ticket not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

type updateTicketRequest struct {
	Status         *model.TicketStatus `json:"status,omitempty"`
	AdditionalInfo *[]model.Comment    `json:"additionalInfo,omitempty"`
}

// update replaces whichever fields are present, like the real endpoint.
func (s *Server) update(c *gin.Context) {
	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "ticket not found"})
		return
	}
	if req.Status != nil {
		s.tickets[i].Status = *req.Status
	}
	if req.AdditionalInfo != nil {
		s.tickets[i].AdditionalInfo = *req.AdditionalInfo
	}
	c.JSON(http.StatusOK, s.tickets[i])
}

func (s *Server) remove(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "ticket not found"})
		return
	}
	s.tickets = append(s.tickets[:i], s.tickets[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "ticket deleted"})
}

func (s *Server) assigned(c *gin.Context) {
	s.mu.Lock()
	out := append([]model.AssignedDevice{}, s.devices[c.Param("userId")]...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"assignedDevices": out})
}
