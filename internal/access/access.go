// Package access decides which pages a session may reach.
package access

import (
	"fmt"
	"strings"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/session"
)

const (
	RouteLogin         = "/login"
	RouteDashboard     = "/"
	RouteCreateTicket  = "/createTicket"
	RouteMyTickets     = "/myTickets"
	RouteAssigned      = "/assigndevices"
	RouteViewTickets   = "/viewTicket"
	RouteTicketDetails = "/tickets/:id"
)

var (
	users = []session.Role{session.RoleUser}
	staff = []session.Role{session.RoleAdmin, session.RoleSuperAdmin}
)

// Policy maps a route pattern to the roles allowed on it.
var Policy = map[string][]session.Role{
	RouteCreateTicket:  users,
	RouteMyTickets:     users,
	RouteAssigned:      users,
	RouteDashboard:     staff,
	RouteViewTickets:   staff,
	RouteTicketDetails: staff,
}

// Landing is where a role is sent when it has nowhere better to go.
func Landing(r session.Role) string {
	if r.Staff() {
		return RouteViewTickets
	}
	if r == session.RoleUser {
		return RouteCreateTicket
	}
	return RouteLogin
}

// Decision is the outcome of Check; Redirect is empty when access is granted.
type Decision struct {
	Route    string
	Role     session.Role
	Redirect string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

// Check evaluates route for the current session.
func Check(p session.Provider, route string) (Decision, error) {
	s, ok := p.Session()
	if !ok {
		return Decision{Route: route, Redirect: RouteLogin}, errs.ErrNotLoggedIn
	}
	d := Decision{Route: route, Role: s.Role}
	pattern := match(route)
	if pattern == "" {
		d.Redirect = Landing(s.Role)
		return d, fmt.Errorf("%w: unknown route %s", errs.ErrForbidden, route)
	}
	for _, r := range Policy[pattern] {
		if r == s.Role {
			return d, nil
		}
	}
	d.Redirect = Landing(s.Role)
	return d, fmt.Errorf("%w: %s cannot open %s", errs.ErrForbidden, s.Role, route)
}

// TicketRoute fills the details pattern with id.
func TicketRoute(id string) string {
	return strings.Replace(RouteTicketDetails, ":id", id, 1)
}

// match resolves a concrete route to its policy pattern.
func match(route string) string {
	if _, ok := Policy[route]; ok {
		return route
	}
	for pattern := range Policy {
		if segmentsMatch(pattern, route) {
			return pattern
		}
	}
	return ""
}

func segmentsMatch(pattern, route string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	rs := strings.Split(strings.Trim(route, "/"), "/")
	if len(ps) != len(rs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if rs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != rs[i] {
			return false
		}
	}
	return true
}
