package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Field types accepted by the form builder.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeCheckbox = "checkbox"
	FieldTypeTextarea = "textarea"
)

// FormField is one field definition inside a form schema.
type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"` // select fields only
}

// FormFields is stored as a JSONB column.
type FormFields []FormField

func (f FormFields) Value() (driver.Value, error) {
	return json.Marshal(f)
}

func (f *FormFields) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	case nil:
		*f = nil
		return nil
	}
	return fmt.Errorf("unsupported type for FormFields: %T", src)
}

// Form is a reusable form definition owned by a clinic. Only published
// forms accept submissions.
type Form struct {
	Base
	ClinicID    uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Name        string     `db:"name" json:"name"`
	Description string     `db:"description" json:"description"`
	Fields      FormFields `db:"fields" json:"fields"`
	IsPublished bool       `db:"is_published" json:"is_published"`
}

// SubmissionData is stored as a JSONB column.
type SubmissionData map[string]interface{}

func (d SubmissionData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *SubmissionData) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	}
	return fmt.Errorf("unsupported type for SubmissionData: %T", src)
}

// FormSubmission is one filled-in instance of a published form.
type FormSubmission struct {
	Base
	FormID      uuid.UUID      `db:"form_id" json:"form_id"`
	PatientID   *uuid.UUID     `db:"patient_id" json:"patient_id,omitempty"`
	SubmittedBy uuid.UUID      `db:"submitted_by" json:"submitted_by"`
	Data        SubmissionData `db:"data" json:"data"`
}

type CreateFormRequest struct {
	ClinicID    string      `json:"clinic_id" binding:"required,uuid"`
	Name        string      `json:"name" binding:"required,max=200"`
	Description string      `json:"description" binding:"max=2000"`
	Fields      []FormField `json:"fields" binding:"required,min=1,dive"`
}

type UpdateFormRequest struct {
	Name        *string     `json:"name" binding:"omitempty,max=200"`
	Description *string     `json:"description" binding:"omitempty,max=2000"`
	Fields      []FormField `json:"fields" binding:"omitempty,min=1,dive"`
}

type SubmitFormRequest struct {
	PatientID *string        `json:"patient_id" binding:"omitempty,uuid"`
	Data      SubmissionData `json:"data" binding:"required"`
}
