// Package render prints tickets, devices and notifications to a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/psds-microservice/helpdesk-cli/internal/model"
	"github.com/psds-microservice/helpdesk-cli/internal/session"
	"github.com/psds-microservice/helpdesk-cli/internal/view"
)

const (
	defaultWidth = 80
	dateLayout   = "2006-01-02 15:04"
)

// Printer writes styled output to w. The color profile is detected from w,
// so output to a pipe or buffer is plain text.
type Printer struct {
	w     io.Writer
	r     *lipgloss.Renderer
	theme Theme
	width int
}

func New(w io.Writer, theme Theme, width int) *Printer {
	if width <= 0 {
		width = defaultWidth
	}
	return &Printer{w: w, r: lipgloss.NewRenderer(w), theme: theme, width: width}
}

// Stars draws a priority on a three-star scale.
func Stars(p model.Priority) string {
	n := p.Stars()
	return strings.Repeat("★", n) + strings.Repeat("☆", 3-n)
}

func (p *Printer) style() lipgloss.Style {
	return p.r.NewStyle().Foreground(p.theme.NormalText)
}

func (p *Printer) faint(s string) string {
	return p.r.NewStyle().Foreground(p.theme.FaintText).Render(s)
}

func (p *Printer) status(s model.TicketStatus) string {
	return p.r.NewStyle().Foreground(p.theme.StatusColor(s)).Bold(true).Render(string(s))
}

func (p *Printer) stars(pr model.Priority) string {
	return p.r.NewStyle().Foreground(p.theme.PriorityColor(pr)).Render(Stars(pr))
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// Success and Error make Printer a view.Notifier.
func (p *Printer) Success(title, text string) {
	p.notice(p.theme.Success, "✔", title, text)
}

func (p *Printer) Error(title, text string) {
	p.notice(p.theme.Failure, "✘", title, text)
}

func (p *Printer) notice(color lipgloss.Color, icon, title, text string) {
	head := p.r.NewStyle().Foreground(color).Bold(true).Render(icon + " " + title)
	if text == "" {
		p.println(head)
		return
	}
	p.println(head + " " + p.style().Render(text))
}

// TicketCards prints the owner list, one bordered card per ticket.
func (p *Printer) TicketCards(items []model.Ticket, summary func(model.Ticket) string) {
	if len(items) == 0 {
		p.println(p.faint("No tickets yet."))
		return
	}
	card := p.r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.theme.Border).
		Padding(0, 1).
		Width(p.width - 2)
	for _, t := range items {
		head := p.r.NewStyle().Foreground(p.theme.Header).Bold(true).Render(t.Device) +
			p.faint(" · "+t.Department+" · #"+t.ID)
		lines := []string{
			head,
			p.stars(t.Priority) + "  " + p.status(t.Status),
			p.style().Render(summary(t)),
		}
		if !t.CreatedAt.IsZero() {
			lines = append(lines, p.faint("Created "+t.CreatedAt.Local().Format(dateLayout)))
		}
		p.println(card.Render(strings.Join(lines, "\n")))
	}
}

type column struct {
	title string
	width int
}

var tableColumns = []column{
	{"ID", 10},
	{"USER", 14},
	{"DEPARTMENT", 11},
	{"DEVICE", 14},
	{"PRIORITY", 9},
	{"STATUS", 12},
	{"COMMENT", 0},
}

// TicketTable prints the staff list. page is zero-based.
func (p *Printer) TicketTable(items []model.Ticket, preview func(model.Ticket) string, page, pages int) {
	fixed := 0
	for _, c := range tableColumns[:len(tableColumns)-1] {
		fixed += c.width + 1
	}
	last := p.width - fixed
	if last < 10 {
		last = 10
	}
	// Cells stay on one line: cut at width, then pad.
	cell := func(text string, width int) string {
		text = p.r.NewStyle().Inline(true).MaxWidth(width).Render(text)
		if pad := width - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		return text
	}

	header := make([]string, 0, len(tableColumns))
	for i, c := range tableColumns {
		w := c.width
		if i == len(tableColumns)-1 {
			w = last
		}
		header = append(header, cell(c.title, w))
	}
	p.println(p.r.NewStyle().Foreground(p.theme.Header).Bold(true).Render(strings.Join(header, " ")))

	if len(items) == 0 {
		p.println(p.faint("No tickets match."))
	}
	for _, t := range items {
		row := []string{
			cell(t.ID, tableColumns[0].width),
			cell(t.UserName, tableColumns[1].width),
			cell(t.Department, tableColumns[2].width),
			cell(t.Device, tableColumns[3].width),
			cell(p.stars(t.Priority), tableColumns[4].width),
			cell(p.status(t.Status), tableColumns[5].width),
			cell(preview(t), last),
		}
		p.println(strings.Join(row, " "))
	}
	p.println(p.faint(fmt.Sprintf("Page %d of %d", page+1, pages)))
}

// TicketDetail prints one ticket with its comment thread. Staff replies are
// aligned right, the requester's on the left.
func (p *Printer) TicketDetail(t model.Ticket, thread []view.ThreadEntry) {
	title := p.r.NewStyle().Foreground(p.theme.Header).Bold(true).Render("Ticket #" + t.ID)
	p.println(title)
	field := func(name, value string) {
		p.println(p.faint(fmt.Sprintf("%-12s", name)) + p.style().Render(value))
	}
	field("User", t.UserName)
	if t.Email != "" {
		field("Email", t.Email)
	}
	field("Department", t.Department)
	field("Device", t.Device)
	p.println(p.faint(fmt.Sprintf("%-12s", "Priority")) + p.stars(t.Priority) + " " + p.style().Render(string(t.Priority)))
	p.println(p.faint(fmt.Sprintf("%-12s", "Status")) + p.status(t.Status))
	p.println("")
	p.Thread(thread)
}

func (p *Printer) Thread(thread []view.ThreadEntry) {
	if len(thread) == 0 {
		p.println(p.faint("No comments yet."))
		return
	}
	bubbleWidth := p.width * 2 / 3
	for _, e := range thread {
		color, align := p.theme.Requester, lipgloss.Left
		if e.Side == view.SideRight {
			color, align = p.theme.Staff, lipgloss.Right
		}
		meta := e.UserName
		if !e.Date.IsZero() {
			meta += " · " + e.Date.Local().Format(dateLayout)
		}
		bubble := p.r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Padding(0, 1).
			Width(bubbleWidth).
			Render(p.style().Render(e.Comment.Comment) + "\n" + p.faint(meta))
		p.println(p.r.PlaceHorizontal(p.width, align, bubble))
	}
}

// Devices prints the assigned device list.
func (p *Printer) Devices(items []model.AssignedDevice) {
	if len(items) == 0 {
		p.println(p.faint("No devices assigned."))
		return
	}
	for _, d := range items {
		line := p.r.NewStyle().Foreground(p.theme.Header).Bold(true).Render(d.Product.ProductType) +
			p.faint(" · "+d.Product.ProductCategory+" · "+d.Product.Branch)
		if d.Status != "" {
			line += "  " + p.style().Render(d.Status)
		}
		if !d.CreatedAt.IsZero() {
			line += "  " + p.faint("since "+d.CreatedAt.Local().Format("2006-01-02"))
		}
		p.println(line)
	}
}

// Session prints the stored identity; the token is never shown.
func (p *Printer) Session(s session.Session, expired bool) {
	p.println(p.style().Bold(true).Render(s.UserName) + p.faint(" <"+s.Email+">"))
	p.println(p.faint("id   ") + s.UserID)
	p.println(p.faint("role ") + string(s.Role))
	if expired {
		p.println(p.r.NewStyle().Foreground(p.theme.Failure).Render("token expired, re-import the session"))
	}
}
