package model

import (
	"strings"
	"time"
)

type BookingType string

const (
	BookingTypeStandard        BookingType = "standard"
	BookingTypeLongStayInquiry BookingType = "long_stay_inquiry"
)

// RecordKind separates genuine guest stays from administrative date blocks.
// Both live in the same collection and both occupy dates when confirmed.
type RecordKind string

const (
	RecordKindBooking RecordKind = "booking"
	RecordKindBlock   RecordKind = "block"
)

const (
	DefaultMealPlanName = "Room Only"

	BlockReasonPrefix  = "Manual Block: "
	DefaultBlockReason = "Admin Blocked"
)

type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string        `json:"user_id,omitempty" bson:"user_id,omitempty"`
	RoomTypeID    string        `json:"room_type_id" bson:"room_type_id"`
	RoomID        string        `json:"room_id,omitempty" bson:"room_id,omitempty"`
	CheckIn       *time.Time    `json:"check_in,omitempty" bson:"check_in,omitempty"`
	CheckOut      *time.Time    `json:"check_out,omitempty" bson:"check_out,omitempty"`
	Nights        int           `json:"nights,omitempty" bson:"nights,omitempty"`
	Guests        int           `json:"guests" bson:"guests"`
	PricePerNight float64       `json:"price_per_night,omitempty" bson:"price_per_night,omitempty"`
	MealPlan      string        `json:"meal_plan,omitempty" bson:"meal_plan,omitempty"`
	MealPlanPrice float64       `json:"meal_plan_price" bson:"meal_plan_price"`
	TotalPrice    float64       `json:"total_price" bson:"total_price"`
	Type          BookingType   `json:"type" bson:"type"`
	RecordKind    RecordKind    `json:"record_kind" bson:"record_kind"`
	Duration      string        `json:"duration,omitempty" bson:"duration,omitempty"`
	ContactEmail  string        `json:"contact_email,omitempty" bson:"contact_email,omitempty"`
	Message       string        `json:"message,omitempty" bson:"message,omitempty"`
	Status        BookingStatus `json:"status" bson:"status"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

func (b *Booking) IsBlock() bool {
	return b.RecordKind == RecordKindBlock
}

func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID != "" && b.UserID == userID
}

// Range returns the stay interval, or false for records without dates (inquiries).
func (b *Booking) Range() (DateRange, bool) {
	if b.CheckIn == nil || b.CheckOut == nil {
		return DateRange{}, false
	}
	return DateRange{Start: *b.CheckIn, End: *b.CheckOut}, true
}

// BlockReason extracts the human readable reason stored in a block message.
func (b *Booking) BlockReason() string {
	return BlockReason(b.Message)
}

func FormatBlockMessage(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultBlockReason
	}
	return BlockReasonPrefix + reason
}

func BlockReason(message string) string {
	if reason, ok := strings.CutPrefix(message, BlockReasonPrefix); ok {
		return reason
	}
	return message
}

// BookingRequest is the body of POST /bookings. Type selects between a
// standard stay and a long stay inquiry; dates are YYYY-MM-DD or RFC3339.
type BookingRequest struct {
	Type         BookingType `json:"type" validate:"omitempty,oneof=standard long_stay_inquiry"`
	RoomTypeID   string      `json:"room_type_id,omitempty" validate:"omitempty,mongodb"`
	CheckIn      string      `json:"check_in,omitempty" validate:"omitempty,booking_date"`
	CheckOut     string      `json:"check_out,omitempty" validate:"omitempty,booking_date"`
	Guests       int         `json:"guests" validate:"min=1,max=50"`
	TotalPrice   *float64    `json:"total_price,omitempty" validate:"omitempty,gte=0"`
	MealPlan     string      `json:"meal_plan,omitempty" validate:"omitempty,max=100"`
	ContactEmail string      `json:"contact_email,omitempty" validate:"omitempty,email,max=254"`
	Duration     string      `json:"duration,omitempty" validate:"omitempty,min=1,max=100"`
	Message      string      `json:"message,omitempty" validate:"omitempty,max=2000"`
}

type StatusUpdateRequest struct {
	Status BookingStatus `json:"status" validate:"required,booking_status"`
}

type BlockRequest struct {
	CheckIn  string `json:"check_in" validate:"required,booking_date"`
	CheckOut string `json:"check_out" validate:"required,booking_date"`
	Reason   string `json:"reason,omitempty" validate:"omitempty,max=200"`
}

// Block is the admin view of a block record.
type Block struct {
	ID        string    `json:"id"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Reason    string    `json:"reason"`
	Message   string    `json:"message"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func BlockFromBooking(b *Booking) *Block {
	block := &Block{
		ID:        b.ID,
		Reason:    b.BlockReason(),
		Message:   b.Message,
		CreatedBy: b.UserID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.CheckIn != nil {
		block.CheckIn = *b.CheckIn
	}
	if b.CheckOut != nil {
		block.CheckOut = *b.CheckOut
	}
	return block
}

// DateInterval is a public, anonymous occupied range.
type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

type Quote struct {
	CheckIn       time.Time `json:"check_in"`
	CheckOut      time.Time `json:"check_out"`
	Nights        int       `json:"nights"`
	Guests        int       `json:"guests"`
	PricePerNight float64   `json:"price_per_night"`
	MealPlan      string    `json:"meal_plan"`
	MealPlanPrice float64   `json:"meal_plan_price"`
	TotalPrice    float64   `json:"total_price"`
	Available     bool      `json:"available"`
}
