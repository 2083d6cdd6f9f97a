package view_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/internal/mocks"
	"github.com/javivarba/chatbots/internal/view"
	"github.com/javivarba/chatbots/pkg/dashboardapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDashboard(t *testing.T) (*view.Dashboard, *mocks.DashboardClient, *view.Document) {
	t.Helper()

	client := &mocks.DashboardClient{}
	doc := view.NewDocument()
	return view.NewDashboard(client, doc, newTestRenderer(t), zap.NewNop()), client, doc
}

func innerHTML(t *testing.T, doc *view.Document, id string) string {
	t.Helper()

	el, ok := doc.Element(id)
	require.True(t, ok)
	return el.HTML
}

func TestDashboard_ShowSection(t *testing.T) {
	t.Run("appointments fetches both appointment views", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		client.On("Appointments", mock.Anything).Return([]dashboardapi.Appointment{}, nil)
		client.On("TodayAppointments", mock.Anything).Return([]dashboardapi.TodayAppointment{}, nil)

		err := dashboard.ShowSection(context.Background(), "appointments")

		require.NoError(t, err)
		assert.Equal(t, view.SectionAppointments, dashboard.Section())
		client.AssertNumberOfCalls(t, "Appointments", 1)
		client.AssertNumberOfCalls(t, "TodayAppointments", 1)
		client.AssertNumberOfCalls(t, "Stats", 0)
		client.AssertNumberOfCalls(t, "Leads", 0)

		assert.True(t, doc.HasClass(view.StatsSectionID, view.HiddenClass))
		assert.False(t, doc.HasClass(view.AppointmentsSectionID, view.HiddenClass))
		assert.False(t, doc.HasClass(view.StatsButtonID, view.ActiveClass))
		assert.True(t, doc.HasClass(view.AppointmentsButtonID, view.ActiveClass))
		assert.Equal(t, view.EmptyAppointmentsHTML, innerHTML(t, doc, view.AppointmentsBodyID))
		assert.Equal(t, view.EmptyTodayAppointmentsHTML, innerHTML(t, doc, view.TodayAppointmentsID))
	})

	t.Run("stats fetches nothing", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		client.On("Appointments", mock.Anything).Return([]dashboardapi.Appointment{}, nil)
		client.On("TodayAppointments", mock.Anything).Return([]dashboardapi.TodayAppointment{}, nil)
		require.NoError(t, dashboard.ShowSection(context.Background(), "appointments"))

		err := dashboard.ShowSection(context.Background(), "stats")

		require.NoError(t, err)
		assert.Equal(t, view.SectionStats, dashboard.Section())
		assert.Len(t, client.Calls, 2)
		assert.False(t, doc.HasClass(view.StatsSectionID, view.HiddenClass))
		assert.True(t, doc.HasClass(view.AppointmentsSectionID, view.HiddenClass))
		assert.True(t, doc.HasClass(view.StatsButtonID, view.ActiveClass))
		assert.False(t, doc.HasClass(view.AppointmentsButtonID, view.ActiveClass))
	})

	t.Run("unknown section is rejected without state change", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		err := dashboard.ShowSection(context.Background(), "reports")

		var viewErr view.Error
		require.ErrorAs(t, err, &viewErr)
		assert.Equal(t, constants.ErrCodeInvalidSection, viewErr.Code)
		assert.Equal(t, view.SectionStats, dashboard.Section())
		assert.Equal(t, uint64(0), doc.Version())
		assert.Empty(t, client.Calls)
	})
}

func TestDashboard_RefreshData(t *testing.T) {
	t.Run("stats section loads stats and leads", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		client.On("Stats", mock.Anything).Return(dashboardapi.Stats{TotalLeads: 5, ConversionRate: 20}, nil)
		client.On("Leads", mock.Anything).Return([]dashboardapi.Lead{}, nil)

		err := dashboard.RefreshData(context.Background())

		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "Stats", 1)
		client.AssertNumberOfCalls(t, "Leads", 1)
		client.AssertNumberOfCalls(t, "Appointments", 0)
		assert.Contains(t, innerHTML(t, doc, view.StatsContainerID), ">20%<")
		assert.Equal(t, view.EmptyLeadsHTML, innerHTML(t, doc, view.LeadsBodyID))
	})

	t.Run("failed load keeps stale content and still runs the other loader", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)
		doc.SetInnerHTML(view.StatsContainerID, "stale")

		client.On("Stats", mock.Anything).Return(dashboardapi.Stats{}, dashboardapi.ErrServerError)
		client.On("Leads", mock.Anything).Return([]dashboardapi.Lead{}, nil)

		err := dashboard.RefreshData(context.Background())

		var viewErr view.Error
		require.ErrorAs(t, err, &viewErr)
		assert.Equal(t, constants.ErrCodeBackendUnavailable, viewErr.Code)
		assert.ErrorIs(t, err, dashboardapi.ErrServerError)
		assert.Equal(t, "stale", innerHTML(t, doc, view.StatsContainerID))
		assert.Equal(t, view.EmptyLeadsHTML, innerHTML(t, doc, view.LeadsBodyID))
	})
}

func TestDashboard_ViewConversation(t *testing.T) {
	t.Run("renders thread and reveals the modal", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		client.On("Lead", mock.Anything, int64(7)).Return(dashboardapi.LeadDetail{
			Lead:     dashboardapi.Lead{ID: 7, Name: "Ana"},
			Messages: []dashboardapi.ConversationMessage{{Sender: "user", Content: "Hola"}},
		}, nil)

		err := dashboard.ViewConversation(context.Background(), 7)

		require.NoError(t, err)
		assert.Contains(t, innerHTML(t, doc, view.ConversationContentID), "Hola")
		assert.False(t, doc.HasClass(view.ConversationModalID, view.HiddenClass))

		dashboard.CloseModal()
		assert.True(t, doc.HasClass(view.ConversationModalID, view.HiddenClass))
	})

	t.Run("missing lead leaves the modal hidden", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		client.On("Lead", mock.Anything, int64(404)).Return(dashboardapi.LeadDetail{}, dashboardapi.ErrNotFound)

		err := dashboard.ViewConversation(context.Background(), 404)

		var viewErr view.Error
		require.ErrorAs(t, err, &viewErr)
		assert.Equal(t, constants.ErrCodeNotFound, viewErr.Code)
		assert.True(t, doc.HasClass(view.ConversationModalID, view.HiddenClass))
	})
}

func TestDashboard_ConfirmAppointment(t *testing.T) {
	t.Run("refreshes both views after confirming", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		client.On("ConfirmAppointment", mock.Anything, int64(3)).Return(nil)
		client.On("Appointments", mock.Anything).Return([]dashboardapi.Appointment{}, nil)
		client.On("TodayAppointments", mock.Anything).Return([]dashboardapi.TodayAppointment{}, nil)

		require.NoError(t, dashboard.ConfirmAppointment(context.Background(), 3))

		client.AssertNumberOfCalls(t, "ConfirmAppointment", 1)
		client.AssertNumberOfCalls(t, "Appointments", 1)
		client.AssertNumberOfCalls(t, "TodayAppointments", 1)
	})

	t.Run("refreshes even when the confirm request fails", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		client.On("ConfirmAppointment", mock.Anything, int64(3)).Return(dashboardapi.ErrNotFound)
		client.On("Appointments", mock.Anything).Return([]dashboardapi.Appointment{}, nil)
		client.On("TodayAppointments", mock.Anything).Return([]dashboardapi.TodayAppointment{}, nil)

		err := dashboard.ConfirmAppointment(context.Background(), 3)

		assert.ErrorIs(t, err, dashboardapi.ErrNotFound)
		client.AssertNumberOfCalls(t, "Appointments", 1)
		client.AssertNumberOfCalls(t, "TodayAppointments", 1)
	})

	t.Run("rejected confirm surfaces as action rejected", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		client.On("ConfirmAppointment", mock.Anything, int64(3)).Return(dashboardapi.ErrRejected)
		client.On("Appointments", mock.Anything).Return([]dashboardapi.Appointment{}, nil)
		client.On("TodayAppointments", mock.Anything).Return([]dashboardapi.TodayAppointment{}, nil)

		err := dashboard.ConfirmAppointment(context.Background(), 3)

		var viewErr view.Error
		require.ErrorAs(t, err, &viewErr)
		assert.Equal(t, constants.ErrCodeActionRejected, viewErr.Code)
		assert.Equal(t, 409, constants.GetHTTPStatus(viewErr.Code))
	})
}

func TestDashboard_CancelAppointment(t *testing.T) {
	t.Run("declined confirmation sends nothing", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		var prompt string
		confirmer := view.ConfirmFunc(func(_ context.Context, p string) (bool, error) {
			prompt = p
			return false, nil
		})

		err := dashboard.CancelAppointment(context.Background(), 5, confirmer)

		require.NoError(t, err)
		assert.Equal(t, "¿Cancelar esta cita?", prompt)
		assert.Empty(t, client.Calls)
	})

	t.Run("accepted confirmation posts once and refreshes both views", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		client.On("CancelAppointment", mock.Anything, int64(5)).Return(nil)
		client.On("Appointments", mock.Anything).Return([]dashboardapi.Appointment{}, nil)
		client.On("TodayAppointments", mock.Anything).Return([]dashboardapi.TodayAppointment{}, nil)

		err := dashboard.CancelAppointment(context.Background(), 5, view.Answer(true))

		require.NoError(t, err)
		client.AssertNumberOfCalls(t, "CancelAppointment", 1)
		client.AssertNumberOfCalls(t, "Appointments", 1)
		client.AssertNumberOfCalls(t, "TodayAppointments", 1)
		assert.Len(t, client.Calls, 3)
	})

	t.Run("confirmer failure sends nothing", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		confirmer := view.ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, errors.New("prompt closed")
		})

		err := dashboard.CancelAppointment(context.Background(), 5, confirmer)

		assert.Error(t, err)
		assert.Empty(t, client.Calls)
	})

	t.Run("nil confirmer is rejected", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		err := dashboard.CancelAppointment(context.Background(), 5, nil)

		var viewErr view.Error
		require.ErrorAs(t, err, &viewErr)
		assert.Equal(t, constants.ErrCodeInvalidRequest, viewErr.Code)
		assert.Empty(t, client.Calls)
	})
}

func TestDashboard_UpdateLeadStatus(t *testing.T) {
	t.Run("posts status and reloads leads", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		client.On("UpdateLeadStatus", mock.Anything, int64(9),
			dashboardapi.UpdateLeadStatusRequest{Status: "contacted"}).Return(nil)
		client.On("Leads", mock.Anything).Return([]dashboardapi.Lead{}, nil)

		require.NoError(t, dashboard.UpdateLeadStatus(context.Background(), 9, " contacted "))

		client.AssertExpectations(t)
	})

	t.Run("blank status is rejected", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		err := dashboard.UpdateLeadStatus(context.Background(), 9, "  ")

		var viewErr view.Error
		require.ErrorAs(t, err, &viewErr)
		assert.Equal(t, constants.ErrCodeInvalidRequest, viewErr.Code)
		assert.Empty(t, client.Calls)
	})

	t.Run("backend failure skips the reload", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		client.On("UpdateLeadStatus", mock.Anything, int64(9), mock.Anything).Return(dashboardapi.ErrBadRequest)

		err := dashboard.UpdateLeadStatus(context.Background(), 9, "bogus")

		assert.ErrorIs(t, err, dashboardapi.ErrBadRequest)
		client.AssertNumberOfCalls(t, "Leads", 0)
	})
}

func TestDashboard_Supersede(t *testing.T) {
	t.Run("newer load cancels the in-flight one", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		started := make(chan struct{})
		client.On("Stats", mock.Anything).Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			close(started)
			<-ctx.Done()
		}).Return(dashboardapi.Stats{}, context.Canceled).Once()
		client.On("Stats", mock.Anything).Return(dashboardapi.Stats{TotalLeads: 9}, nil).Once()

		firstErr := make(chan error, 1)
		go func() { firstErr <- dashboard.LoadStats(context.Background()) }()
		<-started

		require.NoError(t, dashboard.LoadStats(context.Background()))

		select {
		case err := <-firstErr:
			assert.ErrorIs(t, err, view.ErrSuperseded)
		case <-time.After(time.Second):
			t.Fatal("superseded load did not return")
		}
		assert.Contains(t, innerHTML(t, doc, view.StatsContainerID), ">9<")
	})

	t.Run("late result from an older load never overwrites a newer one", func(t *testing.T) {
		dashboard, client, doc := newTestDashboard(t)

		started := make(chan struct{})
		release := make(chan struct{})
		client.On("Stats", mock.Anything).Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return(dashboardapi.Stats{TotalLeads: 1}, nil).Once()
		client.On("Stats", mock.Anything).Return(dashboardapi.Stats{TotalLeads: 9}, nil).Once()

		firstErr := make(chan error, 1)
		go func() { firstErr <- dashboard.LoadStats(context.Background()) }()
		<-started

		require.NoError(t, dashboard.LoadStats(context.Background()))
		version := doc.Version()
		close(release)

		select {
		case err := <-firstErr:
			assert.ErrorIs(t, err, view.ErrSuperseded)
		case <-time.After(time.Second):
			t.Fatal("stale load did not return")
		}
		assert.Contains(t, innerHTML(t, doc, view.StatsContainerID), ">9<")
		assert.Equal(t, version, doc.Version())
	})

	t.Run("caller cancellation is reported as is", func(t *testing.T) {
		dashboard, client, _ := newTestDashboard(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client.On("Leads", mock.Anything).Return(nil, context.Canceled)

		err := dashboard.LoadLeads(ctx)

		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, view.ErrSuperseded)
	})
}
