package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/pkg/dashboardapi"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type inflightLoad struct {
	seq    uint64
	cancel context.CancelFunc
}

// Dashboard owns the current section and every load that writes into the
// document. A load for an element cancels the previous in-flight load for the
// same element, and only the newest load may write its result.
type Dashboard struct {
	client   dashboardapi.Client
	doc      *Document
	renderer *Renderer
	logger   *zap.Logger

	mu       sync.Mutex
	section  Section
	seq      uint64
	inflight map[string]inflightLoad
}

func NewDashboard(client dashboardapi.Client, doc *Document, renderer *Renderer, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		client:   client,
		doc:      doc,
		renderer: renderer,
		logger:   logger,
		section:  SectionStats,
		inflight: make(map[string]inflightLoad),
	}
}

func (d *Dashboard) Section() Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.section
}

func (d *Dashboard) Document() *Document {
	return d.doc
}

func (d *Dashboard) ShowSection(ctx context.Context, value string) error {
	section, err := ParseSection(value)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.section = section
	d.doc.ToggleClass(StatsSectionID, HiddenClass, section != SectionStats)
	d.doc.ToggleClass(AppointmentsSectionID, HiddenClass, section != SectionAppointments)
	d.doc.ToggleClass(StatsButtonID, ActiveClass, section == SectionStats)
	d.doc.ToggleClass(AppointmentsButtonID, ActiveClass, section == SectionAppointments)
	d.mu.Unlock()

	d.logger.Debug("Section changed", zap.String("section", string(section)))

	if section == SectionAppointments {
		return d.loadAppointmentViews(ctx)
	}

	return nil
}

func (d *Dashboard) LoadStats(ctx context.Context) error {
	return load(ctx, d, StatsContainerID, d.client.Stats, d.renderer.Stats, nil)
}

func (d *Dashboard) LoadLeads(ctx context.Context) error {
	return load(ctx, d, LeadsBodyID, d.client.Leads, d.renderer.Leads, nil)
}

func (d *Dashboard) LoadAppointments(ctx context.Context) error {
	return load(ctx, d, AppointmentsBodyID, d.client.Appointments, d.renderer.Appointments, nil)
}

func (d *Dashboard) LoadTodayAppointments(ctx context.Context) error {
	return load(ctx, d, TodayAppointmentsID, d.client.TodayAppointments, d.renderer.TodayAppointments, nil)
}

// ViewConversation renders the lead's thread into the modal and reveals it.
func (d *Dashboard) ViewConversation(ctx context.Context, leadID int64) error {
	fetch := func(ctx context.Context) (dashboardapi.LeadDetail, error) {
		return d.client.Lead(ctx, leadID)
	}
	reveal := func(doc *Document) {
		doc.RemoveClass(ConversationModalID, HiddenClass)
	}

	return load(ctx, d, ConversationContentID, fetch, d.renderer.Conversation, reveal)
}

func (d *Dashboard) CloseModal() {
	d.doc.AddClass(ConversationModalID, HiddenClass)
}

// ConfirmAppointment refreshes both appointment views whatever the outcome of
// the confirm request.
func (d *Dashboard) ConfirmAppointment(ctx context.Context, appointmentID int64) error {
	postErr := d.client.ConfirmAppointment(ctx, appointmentID)
	if postErr != nil {
		d.logger.Warn("Confirm appointment request failed",
			zap.Int64("appointmentID", appointmentID), zap.Error(postErr))
	}

	refreshErr := d.loadAppointmentViews(ctx)
	if postErr != nil {
		return backendError(postErr)
	}

	return refreshErr
}

// CancelAppointment asks the confirmer first. A declined prompt sends nothing.
func (d *Dashboard) CancelAppointment(ctx context.Context, appointmentID int64, confirmer Confirmer) error {
	if confirmer == nil {
		return NewError(constants.ErrCodeInvalidRequest, errors.New("cancel requires a confirmer"))
	}

	accepted, err := confirmer.Confirm(ctx, CancelAppointmentPrompt)
	if err != nil {
		return NewError(constants.ErrCodeInvalidRequest, fmt.Errorf("confirmation failed: %w", err))
	}

	if !accepted {
		d.logger.Debug("Appointment cancellation declined", zap.Int64("appointmentID", appointmentID))
		return nil
	}

	postErr := d.client.CancelAppointment(ctx, appointmentID)
	if postErr != nil {
		d.logger.Warn("Cancel appointment request failed",
			zap.Int64("appointmentID", appointmentID), zap.Error(postErr))
	}

	refreshErr := d.loadAppointmentViews(ctx)
	if postErr != nil {
		return backendError(postErr)
	}

	return refreshErr
}

func (d *Dashboard) UpdateLeadStatus(ctx context.Context, leadID int64, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return NewError(constants.ErrCodeInvalidRequest, errors.New("status is required"))
	}

	err := d.client.UpdateLeadStatus(ctx, leadID, dashboardapi.UpdateLeadStatusRequest{Status: status})
	if err != nil {
		d.logger.Warn("Update lead status request failed",
			zap.Int64("leadID", leadID), zap.String("status", status), zap.Error(err))
		return backendError(err)
	}

	return d.LoadLeads(ctx)
}

// RefreshData reloads the two views of the current section.
func (d *Dashboard) RefreshData(ctx context.Context) error {
	if d.Section() == SectionStats {
		return d.loadPair(ctx, d.LoadStats, d.LoadLeads)
	}

	return d.loadAppointmentViews(ctx)
}

func (d *Dashboard) loadAppointmentViews(ctx context.Context) error {
	return d.loadPair(ctx, d.LoadAppointments, d.LoadTodayAppointments)
}

// loadPair runs both loaders to completion even when one of them fails.
func (d *Dashboard) loadPair(ctx context.Context, first, second func(context.Context) error) error {
	var g errgroup.Group
	g.Go(func() error { return first(ctx) })
	g.Go(func() error { return second(ctx) })
	return g.Wait()
}

func load[T any](
	ctx context.Context,
	d *Dashboard,
	elementID string,
	fetch func(context.Context) (T, error),
	render func(T) (string, error),
	after func(*Document),
) error {
	loadCtx, seq := d.begin(ctx, elementID)
	defer d.end(elementID, seq)

	payload, err := fetch(loadCtx)
	if err != nil {
		if !d.current(elementID, seq) {
			return ErrSuperseded
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		d.logger.Error("Failed to load fragment", zap.String("element", elementID), zap.Error(err))
		return backendError(err)
	}

	html, err := render(payload)
	if err != nil {
		d.logger.Error("Failed to render fragment", zap.String("element", elementID), zap.Error(err))
		return err
	}

	return d.commit(elementID, seq, func(doc *Document) {
		doc.SetInnerHTML(elementID, html)
		if after != nil {
			after(doc)
		}
	})
}

func (d *Dashboard) begin(ctx context.Context, elementID string) (context.Context, uint64) {
	loadCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.inflight[elementID]; ok {
		prev.cancel()
	}

	d.seq++
	d.inflight[elementID] = inflightLoad{seq: d.seq, cancel: cancel}

	return loadCtx, d.seq
}

func (d *Dashboard) end(elementID string, seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cur, ok := d.inflight[elementID]; ok && cur.seq == seq {
		cur.cancel()
		delete(d.inflight, elementID)
	}
}

func (d *Dashboard) current(elementID string, seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur, ok := d.inflight[elementID]
	return ok && cur.seq == seq
}

func (d *Dashboard) commit(elementID string, seq uint64, apply func(*Document)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur, ok := d.inflight[elementID]
	if !ok || cur.seq != seq {
		d.logger.Debug("Dropping superseded fragment", zap.String("element", elementID))
		return ErrSuperseded
	}

	apply(d.doc)
	return nil
}
