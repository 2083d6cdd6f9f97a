package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/pkg/dashboardapi"
)

const (
	EmptyLeadsHTML             = `<tr><td colspan="7" class="px-6 py-4 text-center">No hay leads</td></tr>`
	EmptyAppointmentsHTML      = `<tr><td colspan="5" class="px-6 py-4 text-center">No hay citas</td></tr>`
	EmptyTodayAppointmentsHTML = `<p class="text-gray-500">No hay citas para hoy</p>`
)

const (
	userSender       = "user"
	scheduledStatus  = "scheduled"
	confirmedCardBG  = "bg-green-50"
	pendingCardBG    = "bg-yellow-50"
	userBubbleClass  = "bg-blue-500 text-white"
	otherBubbleClass = "bg-gray-200"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type StatsView struct {
	TotalLeads     int64
	Interested     int64
	Scheduled      int64
	ConversionRate string
}

type LeadRow struct {
	ID          int64
	Name        string
	Phone       string
	Status      string
	Source      string
	LastContact string
	Messages    int64
}

type AppointmentRow struct {
	ID          int64
	Date        string
	Time        string
	LeadName    string
	LeadPhone   string
	Status      string
	Confirmable bool
}

type TodayCard struct {
	ID         int64
	Time       string
	LeadName   string
	LeadPhone  string
	Status     string
	Background string
}

type MessageView struct {
	Content   string
	Timestamp string
	Align     string
	Bubble    string
}

type ConversationView struct {
	LeadName  string
	LeadPhone string
	Messages  []MessageView
}

// Renderer turns backend payloads into escaped HTML fragments.
type Renderer struct {
	tmpl   *template.Template
	format Formatter
}

func NewRenderer(format Formatter) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl, format: format}, nil
}

func (r *Renderer) Stats(stats dashboardapi.Stats) (string, error) {
	return r.execute("stats", StatsView{
		TotalLeads:     stats.TotalLeads,
		Interested:     stats.Interested,
		Scheduled:      stats.Scheduled,
		ConversionRate: strconv.FormatFloat(stats.ConversionRate, 'f', -1, 64),
	})
}

func (r *Renderer) Leads(leads []dashboardapi.Lead) (string, error) {
	if len(leads) == 0 {
		return EmptyLeadsHTML, nil
	}

	rows := make([]LeadRow, 0, len(leads))
	for _, lead := range leads {
		rows = append(rows, LeadRow{
			ID:          lead.ID,
			Name:        lead.Name,
			Phone:       lead.Phone,
			Status:      lead.Status,
			Source:      SourceDisplay(lead.Source),
			LastContact: r.format.LastContact(lead.LastContact.At(r.format.Location)),
			Messages:    lead.Messages,
		})
	}

	return r.execute("leads", rows)
}

func (r *Renderer) Appointments(appointments []dashboardapi.Appointment) (string, error) {
	if len(appointments) == 0 {
		return EmptyAppointmentsHTML, nil
	}

	rows := make([]AppointmentRow, 0, len(appointments))
	for _, apt := range appointments {
		rows = append(rows, AppointmentRow{
			ID:          apt.ID,
			Date:        r.format.Date(apt.Datetime.In(r.format.Location)),
			Time:        r.format.Time(apt.Datetime.In(r.format.Location)),
			LeadName:    apt.LeadName,
			LeadPhone:   apt.LeadPhone,
			Status:      apt.Status,
			Confirmable: apt.Status == scheduledStatus,
		})
	}

	return r.execute("appointments", rows)
}

func (r *Renderer) TodayAppointments(appointments []dashboardapi.TodayAppointment) (string, error) {
	if len(appointments) == 0 {
		return EmptyTodayAppointmentsHTML, nil
	}

	cards := make([]TodayCard, 0, len(appointments))
	for _, apt := range appointments {
		background := pendingCardBG
		if apt.Confirmed {
			background = confirmedCardBG
		}

		cards = append(cards, TodayCard{
			ID:         apt.ID,
			Time:       apt.Time,
			LeadName:   apt.LeadName,
			LeadPhone:  apt.LeadPhone,
			Status:     apt.Status,
			Background: background,
		})
	}

	return r.execute("today", cards)
}

func (r *Renderer) Conversation(detail dashboardapi.LeadDetail) (string, error) {
	conversation := ConversationView{
		LeadName:  detail.Lead.Name,
		LeadPhone: detail.Lead.Phone,
		Messages:  make([]MessageView, 0, len(detail.Messages)),
	}

	for _, msg := range detail.Messages {
		message := MessageView{
			Content:   msg.Content,
			Timestamp: r.format.DateTime(msg.Timestamp.In(r.format.Location)),
			Align:     "text-left",
			Bubble:    otherBubbleClass,
		}
		if msg.Sender == userSender {
			message.Align = "text-right"
			message.Bubble = userBubbleClass
		}
		conversation.Messages = append(conversation.Messages, message)
	}

	return r.execute("conversation", conversation)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", NewError(constants.ErrCodeRenderFailed, fmt.Errorf("render %s: %w", name, err))
	}

	return strings.TrimSpace(buf.String()), nil
}
