package models

import (
	"gorm.io/gorm"
)

type CarStatus string

const (
	CarStatusLive        CarStatus = "Live"
	CarStatusBooked      CarStatus = "Booked"
	CarStatusUnavailable CarStatus = "Unavailable"
)

// Car is a rental vehicle. Mutated by admin inventory operations;
// read-only to renters except for the release back to Live on
// renter-initiated cancellation.
type Car struct {
	gorm.Model
	CarModel     string    `json:"model" gorm:"column:car_model;not null"`
	PricePerDay  float64   `json:"pricePerDay" gorm:"not null"`
	Specs        string    `json:"specs"`
	ImageURL     string    `json:"imageUrl"`
	PlateNumber  string    `json:"plateNumber" gorm:"not null"`
	Location     string    `json:"location"`
	Status       CarStatus `json:"status" gorm:"not null;default:'Live'"`
	OwnerContact string    `json:"ownerContact"`
}

// TableName specifies the table name
func (Car) TableName() string {
	return "cars"
}

// ValidCarStatus reports whether s is one of the known inventory states.
func ValidCarStatus(s CarStatus) bool {
	switch s {
	case CarStatusLive, CarStatusBooked, CarStatusUnavailable:
		return true
	}
	return false
}
