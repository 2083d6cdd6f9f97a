package v1

type SectionRequest struct {
	Section string `params:"section" validate:"required"`
}

type FragmentRequest struct {
	ID string `params:"id" validate:"required"`
}

type LeadRequest struct {
	ID int64 `params:"id" validate:"gt=0"`
}

type LeadStatusRequest struct {
	ID     int64  `params:"id" validate:"gt=0"`
	Status string `json:"status" form:"status" validate:"required,max=32"`
}

type AppointmentRequest struct {
	ID int64 `params:"id" validate:"gt=0"`
}

type CancelAppointmentRequest struct {
	ID      int64 `params:"id" validate:"gt=0"`
	Confirm bool  `query:"confirm"`
}
