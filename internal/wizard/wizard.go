// Package wizard implements the booking flow as an explicit state machine:
// a linear sequence of steps collecting inputs into a draft, with guards
// re-checked on every forward attempt. The draft is uncommitted state; the
// booking row is written exactly once, at final confirmation.
package wizard

import (
	"errors"
	"time"

	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/pkg/utils"
)

type Step int

const (
	StepVehicle Step = iota + 1
	StepRenter
	StepPayment
	StepCredentials
	StepSummary
)

var stepLabels = map[Step]string{
	StepVehicle:     "Vehicle",
	StepRenter:      "Renter",
	StepPayment:     "Payment",
	StepCredentials: "Credentials",
	StepSummary:     "Summary",
}

func (s Step) String() string {
	if label, ok := stepLabels[s]; ok {
		return label
	}
	return "Unknown"
}

// Guard failures. These disable the forward transition; they are expected
// input states, not server errors.
var (
	ErrReturnLocationRequired   = errors.New("return location is required")
	ErrDeliveryLocationRequired = errors.New("delivery location is required for delivery service")
	ErrPaymentMethodRequired    = errors.New("a payment method must be selected")
	ErrPaymentProofRequired     = errors.New("payment proof must be uploaded")
	ErrDocumentsIncomplete      = errors.New("all identity documents must be uploaded")
	ErrAlreadyAtSummary         = errors.New("draft is at the summary step; confirm or go back")
	ErrNotAtSummary             = errors.New("draft has not reached the summary step")
)

// DocumentSlot names one of the five required identity-document uploads.
type DocumentSlot string

const (
	SlotDriversLicense DocumentSlot = "drivers-license"
	SlotLtoQr          DocumentSlot = "lto-qr"
	SlotProofOfBilling DocumentSlot = "proof-of-billing"
	SlotSelfieWithID   DocumentSlot = "selfie-with-id"
	SlotSecondValidID  DocumentSlot = "second-valid-id"
)

// DocumentSlots lists every slot in display order.
var DocumentSlots = []DocumentSlot{
	SlotDriversLicense,
	SlotLtoQr,
	SlotProofOfBilling,
	SlotSelfieWithID,
	SlotSecondValidID,
}

// Documents holds the uploaded identity-document references.
type Documents struct {
	DriversLicenseURL string `json:"driversLicenseUrl"`
	LtoQrURL          string `json:"ltoQrUrl"`
	ProofOfBillingURL string `json:"proofOfBillingUrl"`
	SelfieWithIDURL   string `json:"selfieWithIdUrl"`
	SecondValidIDURL  string `json:"secondValidIdUrl"`
}

// Set stores url in the named slot. Unknown slots are reported, not ignored.
func (d *Documents) Set(slot DocumentSlot, url string) error {
	switch slot {
	case SlotDriversLicense:
		d.DriversLicenseURL = url
	case SlotLtoQr:
		d.LtoQrURL = url
	case SlotProofOfBilling:
		d.ProofOfBillingURL = url
	case SlotSelfieWithID:
		d.SelfieWithIDURL = url
	case SlotSecondValidID:
		d.SecondValidIDURL = url
	default:
		return errors.New("unknown document slot: " + string(slot))
	}
	return nil
}

// Missing returns the slots that still have no upload.
func (d *Documents) Missing() []DocumentSlot {
	var missing []DocumentSlot
	if d.DriversLicenseURL == "" {
		missing = append(missing, SlotDriversLicense)
	}
	if d.LtoQrURL == "" {
		missing = append(missing, SlotLtoQr)
	}
	if d.ProofOfBillingURL == "" {
		missing = append(missing, SlotProofOfBilling)
	}
	if d.SelfieWithIDURL == "" {
		missing = append(missing, SlotSelfieWithID)
	}
	if d.SecondValidIDURL == "" {
		missing = append(missing, SlotSecondValidID)
	}
	return missing
}

// Complete reports whether all five slots are populated.
func (d *Documents) Complete() bool {
	return len(d.Missing()) == 0
}

// Draft is the in-flight wizard state for one user. It lives in Redis until
// confirmation or abandonment; nothing touches the bookings table before the
// final step.
type Draft struct {
	UserID uint `json:"userId"`
	Step   Step `json:"step"`

	CarID       uint    `json:"carId"`
	CarModel    string  `json:"carModel"`
	PlateNumber string  `json:"plateNumber"`
	ImageURL    string  `json:"imageUrl"`
	PricePerDay float64 `json:"pricePerDay"`

	PickupDate time.Time `json:"pickupDate"`
	ReturnDate time.Time `json:"returnDate"`

	ServiceMode      models.ServiceMode  `json:"serviceMode"`
	Handover         models.HandoverMode `json:"handover"`
	ReturnLocation   string              `json:"returnLocation"`
	DeliveryLocation string              `json:"deliveryLocation"`

	PaymentMethod   string `json:"paymentMethod"`
	PaymentProofURL string `json:"paymentProofUrl"`

	Documents Documents `json:"documents"`
}

// NewDraft starts a wizard for the given car. pickupStr and returnStr come
// from the deep-link entry contract; malformed or missing values fall back
// to today and today+3.
func NewDraft(userID uint, car *models.Car, pickupStr, returnStr string) *Draft {
	now := time.Now()
	pickup := utils.ParseDateOrDefault(pickupStr, now)
	ret := utils.ParseDateOrDefault(returnStr, now.AddDate(0, 0, utils.DefaultRentalSpanDays))

	return &Draft{
		UserID:      userID,
		Step:        StepVehicle,
		CarID:       car.ID,
		CarModel:    car.CarModel,
		PlateNumber: car.PlateNumber,
		ImageURL:    car.ImageURL,
		PricePerDay: car.PricePerDay,
		PickupDate:  pickup,
		ReturnDate:  ret,
		ServiceMode: models.ServiceModeSelfDrive,
		Handover:    models.HandoverPickup,
	}
}

// Quote recomputes the derived totals from the current dates.
func (d *Draft) Quote() utils.PriceQuote {
	return utils.CalculateQuote(d.PricePerDay, d.PickupDate, d.ReturnDate)
}

// guard returns the condition blocking a forward transition out of the
// current step, or nil when the step may advance. Guards are evaluated
// fresh on every call; nothing is cached.
func (d *Draft) guard() error {
	switch d.Step {
	case StepVehicle:
		return nil
	case StepRenter:
		if d.ReturnLocation == "" {
			return ErrReturnLocationRequired
		}
		if d.Handover == models.HandoverDelivery && d.DeliveryLocation == "" {
			return ErrDeliveryLocationRequired
		}
		return nil
	case StepPayment:
		if d.PaymentMethod == "" {
			return ErrPaymentMethodRequired
		}
		if d.PaymentProofURL == "" {
			return ErrPaymentProofRequired
		}
		return nil
	case StepCredentials:
		if !d.Documents.Complete() {
			return ErrDocumentsIncomplete
		}
		return nil
	case StepSummary:
		return ErrAlreadyAtSummary
	}
	return nil
}

// CanAdvance reports whether the forward transition out of the current step
// is currently permitted, and if not, why.
func (d *Draft) CanAdvance() error {
	return d.guard()
}

// Advance moves the draft one step forward after re-checking the guard.
// Advancing from the summary step is not a transition; confirmation is.
func (d *Draft) Advance() error {
	if err := d.guard(); err != nil {
		return err
	}
	d.Step++
	return nil
}

// Back moves one step backward and reports whether the draft exited the
// wizard (back from step 1 abandons the flow).
func (d *Draft) Back() (exited bool) {
	if d.Step <= StepVehicle {
		return true
	}
	d.Step--
	return false
}

// Booking materializes the final record. Only valid from the summary step
// with all guards historically satisfied; the caller persists it in a
// single insert with status Pending.
func (d *Draft) Booking(reference string) (*models.Booking, error) {
	if d.Step != StepSummary {
		return nil, ErrNotAtSummary
	}
	quote := d.Quote()
	return &models.Booking{
		Reference:         reference,
		UserID:            d.UserID,
		CarID:             d.CarID,
		CarModel:          d.CarModel,
		PlateNumber:       d.PlateNumber,
		ImageURL:          d.ImageURL,
		PickupDate:        d.PickupDate,
		ReturnDate:        d.ReturnDate,
		ServiceMode:       d.ServiceMode,
		Handover:          d.Handover,
		ReturnLocation:    d.ReturnLocation,
		DeliveryLocation:  d.DeliveryLocation,
		PaymentMethod:     d.PaymentMethod,
		PaymentProofURL:   d.PaymentProofURL,
		DriversLicenseURL: d.Documents.DriversLicenseURL,
		LtoQrURL:          d.Documents.LtoQrURL,
		ProofOfBillingURL: d.Documents.ProofOfBillingURL,
		SelfieWithIDURL:   d.Documents.SelfieWithIDURL,
		SecondValidIDURL:  d.Documents.SecondValidIDURL,
		RentalDays:        quote.RentalDays,
		TotalPrice:        quote.TotalPrice,
		ReservationFee:    quote.ReservationFee,
		RemainingBalance:  quote.RemainingBalance,
		Status:            models.BookingStatusPending,
	}, nil
}
