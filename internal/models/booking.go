package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusOnGoing   BookingStatus = "On-going"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// ServiceMode is how the renter uses the vehicle.
type ServiceMode string

const (
	ServiceModeSelfDrive  ServiceMode = "self-drive"
	ServiceModeWithDriver ServiceMode = "with-driver"
)

// HandoverMode is how the vehicle changes hands at the start of the rental.
type HandoverMode string

const (
	HandoverPickup   HandoverMode = "pickup"
	HandoverDelivery HandoverMode = "delivery"
)

// statusTransitions is the admin happy path plus the two cancellable states.
// Cancellation is the only lateral exit; everything else moves forward.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusOnGoing, BookingStatusCancelled},
	BookingStatusOnGoing:   {BookingStatusCompleted},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// CanTransitionTo reports whether next is a legal status step from s.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether a renter may still cancel a booking in status s.
func (s BookingStatus) Cancellable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s BookingStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// Booking is written exactly once, at wizard completion, with status Pending.
// Afterwards only the status field changes, moved by an admin or by a
// renter-initiated cancellation. Vehicle display fields are denormalized so
// trip listings survive inventory edits.
type Booking struct {
	gorm.Model
	Reference string `json:"reference" gorm:"uniqueIndex;not null"`
	UserID    uint   `json:"userId" gorm:"not null;index"`
	User      User   `json:"-"`
	CarID     uint   `json:"carId" gorm:"not null"`
	Car       Car    `json:"-"`

	CarModel    string `json:"carModel"`
	PlateNumber string `json:"plateNumber"`
	ImageURL    string `json:"imageUrl"`

	PickupDate time.Time `json:"pickupDate" gorm:"not null"`
	ReturnDate time.Time `json:"returnDate" gorm:"not null"`

	ServiceMode      ServiceMode  `json:"serviceMode" gorm:"not null;default:'self-drive'"`
	Handover         HandoverMode `json:"handover" gorm:"not null;default:'pickup'"`
	ReturnLocation   string       `json:"returnLocation"`
	DeliveryLocation string       `json:"deliveryLocation"`

	PaymentMethod   string `json:"paymentMethod"`
	PaymentProofURL string `json:"paymentProofUrl"`

	DriversLicenseURL string `json:"driversLicenseUrl"`
	LtoQrURL          string `json:"ltoQrUrl"`
	ProofOfBillingURL string `json:"proofOfBillingUrl"`
	SelfieWithIDURL   string `json:"selfieWithIdUrl"`
	SecondValidIDURL  string `json:"secondValidIdUrl"`

	RentalDays       int     `json:"rentalDays" gorm:"not null"`
	TotalPrice       float64 `json:"totalPrice" gorm:"not null"`
	ReservationFee   float64 `json:"reservationFee" gorm:"not null"`
	RemainingBalance float64 `json:"remainingBalance" gorm:"not null"`

	Status BookingStatus `json:"status" gorm:"not null;default:'Pending'"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}
