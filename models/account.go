package models

import "time"

// Customer is a registered rider.
type Customer struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Driver is a driver registration, pending until an admin approves it.
type Driver struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone" bson:"phone"`
	License      string    `json:"license" bson:"license"`
	NationalID   string    `json:"nationalId" bson:"nationalId"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	Approved     bool      `json:"approved" bson:"approved"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// CustomerRegistration is the body of POST /api/register/customer.
type CustomerRegistration struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// DriverRegistration is the body of POST /api/register/driver.
type DriverRegistration struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	Phone      string `json:"phone"`
	License    string `json:"license"`
	NationalID string `json:"nationalId"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Role     string `json:"role" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// FareSettings are the admin-editable fare knobs.
type FareSettings struct {
	BaseFare   float64 `json:"baseFare" bson:"baseFare" binding:"gte=0"`
	Commission float64 `json:"commission" bson:"commission" binding:"gte=0"`
}

// Booking is a ride request submitted from the booking form.
type Booking struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name" binding:"required"`
	Pickup      string    `json:"pickup" bson:"pickup" binding:"required"`
	Destination string    `json:"destination" bson:"destination" binding:"required"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
