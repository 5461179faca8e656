package models

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Gender codes accepted by the backend.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

var phoneRe = regexp.MustCompile(`^[0-9+\-() ]{3,20}$`)

// Patient is a patient record.
type Patient struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	MRN       string    `json:"mrn"`
	Phone     string    `json:"phone"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatientInput is the body used to create a patient.
type PatientInput struct {
	FullName string `json:"full_name"`
	MRN      string `json:"mrn"`
	Phone    string `json:"phone,omitempty"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Notes    string `json:"notes,omitempty"`
}

// Validate checks the input before it is sent; the REPL form calls it so a
// typo does not cost a round trip.
func (p PatientInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.MRN, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Age, validation.Min(0), validation.Max(150)),
		validation.Field(&p.Gender, validation.Required, validation.In(GenderMale, GenderFemale, GenderOther)),
		validation.Field(&p.Phone, validation.Match(phoneRe)),
	)
}

// PatientUpdate is a partial patient update; nil fields are not sent.
type PatientUpdate struct {
	FullName *string `json:"full_name,omitempty"`
	MRN      *string `json:"mrn,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Age      *int    `json:"age,omitempty"`
	Gender   *string `json:"gender,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (u PatientUpdate) Empty() bool {
	return u.FullName == nil && u.MRN == nil && u.Phone == nil &&
		u.Age == nil && u.Gender == nil && u.Notes == nil
}

// Validate applies the PatientInput rules to the fields that are set. A set
// name, MRN or gender may not be blank.
func (u PatientUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.FullName, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&u.MRN, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&u.Age, validation.Min(0), validation.Max(150)),
		validation.Field(&u.Gender, validation.NilOrNotEmpty, validation.In(GenderMale, GenderFemale, GenderOther)),
		validation.Field(&u.Phone, validation.Match(phoneRe)),
	)
}

// PatientQuery filters the patient list.
type PatientQuery struct {
	PageQuery
	Search string
}

// Params adds search to the page parameters only when it is set.
func (q PatientQuery) Params() map[string]string {
	params := q.PageQuery.Params()
	if q.Search != "" {
		params["search"] = q.Search
	}
	return params
}

// PatientRef says which patient an uploaded image belongs to: either an
// existing record (PatientID) or, for older flows, the demographic fields
// from which the backend finds or creates one.
type PatientRef struct {
	PatientID int64

	Name   string
	Age    int
	Gender string
	MRN    string
	Phone  string
}

// HasID reports whether the reference points at an existing record.
func (r PatientRef) HasID() bool { return r.PatientID > 0 }

// Validate requires either a positive PatientID or the full legacy set.
func (r PatientRef) Validate() error {
	if r.HasID() {
		return nil
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.MRN, validation.Required),
		validation.Field(&r.Age, validation.Min(0), validation.Max(150)),
		validation.Field(&r.Gender, validation.Required, validation.In(GenderMale, GenderFemale, GenderOther)),
	)
}
