package deal

import "time"

// CreateDealRequest opens a new deal
type CreateDealRequest struct {
	Name              string     `json:"name" validate:"required,max=255"`
	Stage             string     `json:"stage,omitempty"`
	Segment           string     `json:"segment,omitempty"`
	Value             int64      `json:"value" validate:"gte=0"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
}

// UpdateDealRequest edits a deal; omitted fields are unchanged
type UpdateDealRequest struct {
	Name              *string    `json:"name,omitempty"`
	Stage             *string    `json:"stage,omitempty"`
	Segment           *string    `json:"segment,omitempty"`
	Value             *int64     `json:"value,omitempty" validate:"omitempty,gte=0"`
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
}

// FlagsRequest sets rep assertions. Keys present with null reset the
// assertion to unknown; absent keys are untouched.
type FlagsRequest struct {
	Flags map[string]*bool `json:"flags" validate:"required"`
}

// AddContactRequest attaches a contact to a deal
type AddContactRequest struct {
	Name  string  `json:"name" validate:"required,max=255"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Title string  `json:"title,omitempty"`
	Role  string  `json:"role,omitempty"`
}

// AddMeetingRequest logs a meeting on a deal
type AddMeetingRequest struct {
	Title    string    `json:"title,omitempty"`
	StartsAt time.Time `json:"starts_at" validate:"required"`
	Status   string    `json:"status,omitempty"`
}

// AddEmailRequest logs an email touchpoint on a deal
type AddEmailRequest struct {
	Direction string    `json:"direction" validate:"required,oneof=sent received"`
	Subject   string    `json:"subject,omitempty"`
	SentAt    time.Time `json:"sent_at" validate:"required"`
}

// AnalysisRequest submits free-form analysis text for signal extraction.
// Source labels where the text came from, e.g. "email" or "transcript".
type AnalysisRequest struct {
	Text   string `json:"text" validate:"required"`
	Source string `json:"source,omitempty" validate:"omitempty,max=64"`
}

// ListDealsRequest narrows the deal listing
type ListDealsRequest struct {
	Stage  string `query:"stage"`
	Tier   string `query:"tier"`
	Owner  string `query:"owner_id"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}
