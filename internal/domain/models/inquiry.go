// internal/domain/models/inquiry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InquiryStatus is the admin-facing progress of an inquiry.
// Transitions are forward-only: pending → responded → closed.
type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "pending"
	InquiryResponded InquiryStatus = "responded"
	InquiryClosed    InquiryStatus = "closed"
)

// AllInquiryStatuses returns every status in transition order.
func AllInquiryStatuses() []InquiryStatus {
	return []InquiryStatus{InquiryPending, InquiryResponded, InquiryClosed}
}

// Valid reports whether s is a known status.
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryResponded, InquiryClosed:
		return true
	}
	return false
}

// Next returns the single successor of s. ok is false for closed and for
// unknown values.
func (s InquiryStatus) Next() (next InquiryStatus, ok bool) {
	switch s {
	case InquiryPending:
		return InquiryResponded, true
	case InquiryResponded:
		return InquiryClosed, true
	}
	return s, false
}

// PaymentStatus records the consultation fee payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// AllPaymentStatuses returns every payment status.
func AllPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentCompleted, PaymentFailed}
}

// InquiryOtherCategory is always offered alongside the practice area titles.
const InquiryOtherCategory = "Other"

// Inquiry is a consultation request submitted through the booking form.
//
// Amount and Currency are copied from settings when the inquiry is created
// and are never recomputed from later settings.
type Inquiry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Reference string             `bson:"reference" json:"reference"`

	FullName    string `bson:"full_name" json:"fullName"`
	FullNameCI  string `bson:"full_name_ci" json:"-"`
	Mobile      string `bson:"mobile" json:"mobile"`
	Email       string `bson:"email" json:"email"`
	City        string `bson:"city,omitempty" json:"city"`
	Category    string `bson:"category" json:"category"`
	Description string `bson:"description" json:"description"`

	Status        InquiryStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	Amount        float64       `bson:"amount" json:"amount"`
	Currency      string        `bson:"currency" json:"currency"`

	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
	RespondedAt *time.Time `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
	ClosedAt    *time.Time `bson:"closed_at,omitempty" json:"closedAt,omitempty"`
}
