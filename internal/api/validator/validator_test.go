package validator_test

import (
	"testing"

	playground "github.com/go-playground/validator/v10"
	"github.com/javivarba/chatbots/internal/api/validator"
	"github.com/javivarba/chatbots/internal/constants"
	"github.com/javivarba/chatbots/internal/metrics"
	"github.com/javivarba/chatbots/internal/view"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadStatus struct {
	ID     int64  `validate:"gt=0"`
	Status string `validate:"required"`
}

func TestXValidator_Check(t *testing.T) {
	m := metrics.NewMetrics()
	v := validator.NewXValidator(playground.New(), m)

	assert.NoError(t, v.Check(leadStatus{ID: 1, Status: "new"}))

	err := v.Check(leadStatus{ID: 0})

	var viewErr view.Error
	require.ErrorAs(t, err, &viewErr)
	assert.Equal(t, constants.ErrCodeInvalidRequest, viewErr.Code)
	assert.EqualError(t, err, "ID failed on gt and Status failed on required")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("ID", "gt")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("Status", "required")))
}

func TestXValidator_Validate(t *testing.T) {
	v := validator.NewXValidator(playground.New(), nil)

	errs := v.Validate(leadStatus{ID: 3})

	require.Len(t, errs, 1)
	assert.True(t, errs[0].Error)
	assert.Equal(t, "Status", errs[0].FailedField)
	assert.Equal(t, "required", errs[0].Tag)
}
