package dashboardapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/javivarba/chatbots/pkg/httpclient"
)

const (
	StatsEndpoint              = "/api/stats"
	LeadsEndpoint              = "/api/leads"
	LeadEndpoint               = "/api/leads/%d"
	LeadStatusEndpoint         = "/api/leads/%d/update-status"
	AppointmentsEndpoint       = "/api/appointments"
	TodayAppointmentsEndpoint  = "/api/appointments/today"
	ConfirmAppointmentEndpoint = "/api/appointments/%d/confirm"
	CancelAppointmentEndpoint  = "/api/appointments/%d/cancel"
)

var (
	jsonHeaders  = map[string]string{"Accept": "application/json"}
	writeHeaders = map[string]string{"Accept": "application/json", "Content-Type": "application/json"}
)

type Client interface {
	Stats(ctx context.Context) (Stats, error)
	Leads(ctx context.Context) ([]Lead, error)
	Lead(ctx context.Context, leadID int64) (LeadDetail, error)
	UpdateLeadStatus(ctx context.Context, leadID int64, request UpdateLeadStatusRequest) error
	Appointments(ctx context.Context) ([]Appointment, error)
	TodayAppointments(ctx context.Context) ([]TodayAppointment, error)
	ConfirmAppointment(ctx context.Context, appointmentID int64) error
	CancelAppointment(ctx context.Context, appointmentID int64) error
}

type client struct {
	client httpclient.HTTPClient
	config Config
}

func NewClient(cfg Config, httpClient httpclient.HTTPClient) Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &client{config: cfg, client: httpClient}
}

func (c *client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, StatsEndpoint, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func (c *client) Leads(ctx context.Context) ([]Lead, error) {
	var leads []Lead
	if err := c.getJSON(ctx, LeadsEndpoint, &leads); err != nil {
		return nil, err
	}

	return leads, nil
}

func (c *client) Lead(ctx context.Context, leadID int64) (LeadDetail, error) {
	var detail LeadDetail
	if err := c.getJSON(ctx, fmt.Sprintf(LeadEndpoint, leadID), &detail); err != nil {
		return LeadDetail{}, err
	}

	return detail, nil
}

func (c *client) UpdateLeadStatus(ctx context.Context, leadID int64, request UpdateLeadStatusRequest) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return fmt.Errorf("encoding error: %w", err)
	}

	return c.post(ctx, fmt.Sprintf(LeadStatusEndpoint, leadID), &buf, writeHeaders)
}

func (c *client) Appointments(ctx context.Context) ([]Appointment, error) {
	var appointments []Appointment
	if err := c.getJSON(ctx, AppointmentsEndpoint, &appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (c *client) TodayAppointments(ctx context.Context) ([]TodayAppointment, error) {
	var appointments []TodayAppointment
	if err := c.getJSON(ctx, TodayAppointmentsEndpoint, &appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

func (c *client) ConfirmAppointment(ctx context.Context, appointmentID int64) error {
	return c.post(ctx, fmt.Sprintf(ConfirmAppointmentEndpoint, appointmentID), nil, jsonHeaders)
}

func (c *client) CancelAppointment(ctx context.Context, appointmentID int64) error {
	return c.post(ctx, fmt.Sprintf(CancelAppointmentEndpoint, appointmentID), nil, jsonHeaders)
}

func (c *client) getJSON(ctx context.Context, endpoint string, out any) error {
	resp, err := c.client.Get(ctx, c.config.BaseURL+endpoint, jsonHeaders)
	if err != nil {
		return mapTransportError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MapStatusToError(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding error: %w", err)
	}

	return nil
}

// post treats a 2xx reply as accepted unless its body says "success": false.
// Empty or non-JSON bodies are accepted.
func (c *client) post(ctx context.Context, endpoint string, body io.Reader, headers map[string]string) error {
	resp, err := c.client.Post(ctx, c.config.BaseURL+endpoint, body, headers)
	if err != nil {
		return mapTransportError(err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return MapStatusToError(resp.StatusCode)
	}

	var reply ActionResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil
	}

	if reply.Success != nil && !*reply.Success {
		if reply.Error != "" {
			return fmt.Errorf("%w: %s", ErrRejected, reply.Error)
		}
		return ErrRejected
	}

	return nil
}

// mapTransportError keeps context.Canceled intact so callers can tell a
// superseded request from a failed one.
func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	return err
}
