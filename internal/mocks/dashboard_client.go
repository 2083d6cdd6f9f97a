package mocks

import (
	"context"

	"github.com/javivarba/chatbots/pkg/dashboardapi"
	"github.com/stretchr/testify/mock"
)

type DashboardClient struct {
	mock.Mock
}

func (c *DashboardClient) Stats(ctx context.Context) (dashboardapi.Stats, error) {
	args := c.Called(ctx)
	return args.Get(0).(dashboardapi.Stats), args.Error(1)
}

func (c *DashboardClient) Leads(ctx context.Context) ([]dashboardapi.Lead, error) {
	args := c.Called(ctx)
	leads, _ := args.Get(0).([]dashboardapi.Lead)
	return leads, args.Error(1)
}

func (c *DashboardClient) Lead(ctx context.Context, leadID int64) (dashboardapi.LeadDetail, error) {
	args := c.Called(ctx, leadID)
	return args.Get(0).(dashboardapi.LeadDetail), args.Error(1)
}

func (c *DashboardClient) UpdateLeadStatus(ctx context.Context, leadID int64, request dashboardapi.UpdateLeadStatusRequest) error {
	args := c.Called(ctx, leadID, request)
	return args.Error(0)
}

func (c *DashboardClient) Appointments(ctx context.Context) ([]dashboardapi.Appointment, error) {
	args := c.Called(ctx)
	appointments, _ := args.Get(0).([]dashboardapi.Appointment)
	return appointments, args.Error(1)
}

func (c *DashboardClient) TodayAppointments(ctx context.Context) ([]dashboardapi.TodayAppointment, error) {
	args := c.Called(ctx)
	appointments, _ := args.Get(0).([]dashboardapi.TodayAppointment)
	return appointments, args.Error(1)
}

func (c *DashboardClient) ConfirmAppointment(ctx context.Context, appointmentID int64) error {
	args := c.Called(ctx, appointmentID)
	return args.Error(0)
}

func (c *DashboardClient) CancelAppointment(ctx context.Context, appointmentID int64) error {
	args := c.Called(ctx, appointmentID)
	return args.Error(0)
}
