package model

import "time"

type RoomStatus string

const (
	RoomStatusActive      RoomStatus = "active"
	RoomStatusMaintenance RoomStatus = "maintenance"
)

const DefaultMaxGuests = 2

type RoomType struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string    `json:"title" bson:"title"`
	Description   string    `json:"description" bson:"description"`
	PricePerNight float64   `json:"price_per_night" bson:"price_per_night"`
	MaxGuests     int       `json:"max_guests" bson:"max_guests"`
	Images        []string  `json:"images" bson:"images"`
	Amenities     []string  `json:"amenities" bson:"amenities"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

// GuestLimit falls back to the catalog default when max_guests was never set.
func (rt *RoomType) GuestLimit() int {
	if rt.MaxGuests <= 0 {
		return DefaultMaxGuests
	}
	return rt.MaxGuests
}

type Room struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string     `json:"name" bson:"name"`
	RoomTypeID string     `json:"room_type_id" bson:"room_type_id"`
	Status     RoomStatus `json:"status" bson:"status"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
}

type MealPlan struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool      `json:"is_active" bson:"is_active"`
	IsDefault   bool      `json:"is_default" bson:"is_default"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is owned by the identity provider; this service only reads it.
type User struct {
	ID            string   `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string   `json:"name" bson:"name"`
	Email         string   `json:"email" bson:"email"`
	Role          UserRole `json:"role" bson:"role"`
	Avatar        string   `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Country       string   `json:"country,omitempty" bson:"country,omitempty"`
	ContactNumber string   `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
}
