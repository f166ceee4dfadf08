package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/jwalitptl/clinic-records/pkg/errors"
)

type visit struct {
	Name   string `json:"name" validate:"required" label:"Visitor name"`
	Email  string `json:"email" validate:"omitempty,email" label:"Email"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,oneof=OPEN CLOSED" label:"Status"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(visit{Name: "A", Date: "2024-03-01", Status: "OPEN"}))

	err := v.Validate(visit{Email: "nope", Date: "03/01/2024", Status: "LOST"})
	assert.True(t, apperrors.IsValidation(err))

	fields := apperrors.FieldsOf(err)
	assert.Equal(t, "Visitor name is required.", fields["name"])
	assert.Equal(t, "Email must be a valid email address.", fields["email"])
	assert.Equal(t, "date must be a date in YYYY-MM-DD format.", fields["date"])
	assert.Equal(t, "Status is not a recognised value.", fields["status"])
}

func TestValidatePointer(t *testing.T) {
	err := New().Validate(&visit{Date: "2024-03-01", Status: "OPEN"})
	assert.Equal(t, "Visitor name is required.", apperrors.FieldsOf(err)["name"])
}
