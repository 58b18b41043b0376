package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/pkg/utils"
	"gorm.io/gorm"
)

func testCar() *models.Car {
	return &models.Car{
		Model:       gorm.Model{ID: 7},
		CarModel:    "Toyota Vios",
		PricePerDay: 2500,
		PlateNumber: "ABC 1234",
		ImageURL:    "/uploads/cars/vios.jpg",
		Status:      models.CarStatusLive,
	}
}

// completeDraft returns a draft with every input filled in, parked at the
// given step.
func completeDraft(step Step) *Draft {
	d := NewDraft(42, testCar(), "2024-01-10", "2024-01-13")
	d.ReturnLocation = "123 Rizal St, Davao City"
	d.PaymentMethod = "GCash"
	d.PaymentProofURL = "/uploads/payments/proof.jpg"
	d.Documents = Documents{
		DriversLicenseURL: "/uploads/documents/dl.jpg",
		LtoQrURL:          "/uploads/documents/qr.jpg",
		ProofOfBillingURL: "/uploads/documents/bill.jpg",
		SelfieWithIDURL:   "/uploads/documents/selfie.jpg",
		SecondValidIDURL:  "/uploads/documents/id2.jpg",
	}
	d.Step = step
	return d
}

func TestNewDraft(t *testing.T) {
	t.Run("SnapshotsCar", func(t *testing.T) {
		d := NewDraft(42, testCar(), "2024-01-10", "2024-01-13")

		assert.Equal(t, uint(42), d.UserID)
		assert.Equal(t, StepVehicle, d.Step)
		assert.Equal(t, uint(7), d.CarID)
		assert.Equal(t, "Toyota Vios", d.CarModel)
		assert.Equal(t, "ABC 1234", d.PlateNumber)
		assert.Equal(t, 2500.0, d.PricePerDay)
		assert.Equal(t, models.ServiceModeSelfDrive, d.ServiceMode)
		assert.Equal(t, models.HandoverPickup, d.Handover)
	})

	t.Run("ParsesDates", func(t *testing.T) {
		d := NewDraft(42, testCar(), "2024-01-10", "2024-01-13")
		assert.Equal(t, "2024-01-10", d.PickupDate.Format(utils.DateLayout))
		assert.Equal(t, "2024-01-13", d.ReturnDate.Format(utils.DateLayout))
	})

	t.Run("MissingDatesFallBack", func(t *testing.T) {
		d := NewDraft(42, testCar(), "", "")
		today := time.Now().Format(utils.DateLayout)
		returnDay := time.Now().AddDate(0, 0, 3).Format(utils.DateLayout)

		assert.Equal(t, today, d.PickupDate.Format(utils.DateLayout))
		assert.Equal(t, returnDay, d.ReturnDate.Format(utils.DateLayout))
	})

	t.Run("MalformedDatesFallBack", func(t *testing.T) {
		d := NewDraft(42, testCar(), "garbage", "13/01/2024")
		today := time.Now().Format(utils.DateLayout)
		returnDay := time.Now().AddDate(0, 0, 3).Format(utils.DateLayout)

		assert.Equal(t, today, d.PickupDate.Format(utils.DateLayout))
		assert.Equal(t, returnDay, d.ReturnDate.Format(utils.DateLayout))
	})
}

func TestDraftQuote(t *testing.T) {
	d := NewDraft(42, testCar(), "2024-01-10", "2024-01-13")
	quote := d.Quote()

	assert.Equal(t, 3, quote.RentalDays)
	assert.Equal(t, 7500.0, quote.TotalPrice)
	assert.Equal(t, 500.0, quote.ReservationFee)
	assert.Equal(t, 7000.0, quote.RemainingBalance)
}

func TestVehicleStepAlwaysAdvances(t *testing.T) {
	d := NewDraft(42, testCar(), "2024-01-10", "2024-01-13")
	assert.NoError(t, d.Advance())
	assert.Equal(t, StepRenter, d.Step)
}

func TestRenterStepGuard(t *testing.T) {
	t.Run("BlockedWithoutReturnLocation", func(t *testing.T) {
		d := completeDraft(StepRenter)
		d.ReturnLocation = ""

		assert.ErrorIs(t, d.Advance(), ErrReturnLocationRequired)
		assert.Equal(t, StepRenter, d.Step)
	})

	t.Run("PickupModeIgnoresDeliveryLocation", func(t *testing.T) {
		d := completeDraft(StepRenter)
		d.Handover = models.HandoverPickup
		d.DeliveryLocation = ""

		assert.NoError(t, d.Advance())
		assert.Equal(t, StepPayment, d.Step)
	})

	t.Run("DeliveryModeRequiresDeliveryLocation", func(t *testing.T) {
		d := completeDraft(StepRenter)
		d.Handover = models.HandoverDelivery
		d.DeliveryLocation = ""

		assert.ErrorIs(t, d.Advance(), ErrDeliveryLocationRequired)
		assert.Equal(t, StepRenter, d.Step)

		d.DeliveryLocation = "456 Bonifacio St"
		assert.NoError(t, d.Advance())
	})

	t.Run("GuardReevaluatedAfterEdit", func(t *testing.T) {
		d := completeDraft(StepRenter)
		assert.NoError(t, d.CanAdvance())

		d.ReturnLocation = ""
		assert.ErrorIs(t, d.CanAdvance(), ErrReturnLocationRequired)
	})
}

func TestPaymentStepGuard(t *testing.T) {
	t.Run("BlockedWithoutMethod", func(t *testing.T) {
		d := completeDraft(StepPayment)
		d.PaymentMethod = ""

		assert.ErrorIs(t, d.Advance(), ErrPaymentMethodRequired)
	})

	t.Run("BlockedWithoutProof", func(t *testing.T) {
		d := completeDraft(StepPayment)
		d.PaymentProofURL = ""

		assert.ErrorIs(t, d.Advance(), ErrPaymentProofRequired)
	})

	t.Run("AdvancesWithBoth", func(t *testing.T) {
		d := completeDraft(StepPayment)
		assert.NoError(t, d.Advance())
		assert.Equal(t, StepCredentials, d.Step)
	})
}

func TestCredentialsStepGuard(t *testing.T) {
	clear := []func(*Documents){
		func(d *Documents) { d.DriversLicenseURL = "" },
		func(d *Documents) { d.LtoQrURL = "" },
		func(d *Documents) { d.ProofOfBillingURL = "" },
		func(d *Documents) { d.SelfieWithIDURL = "" },
		func(d *Documents) { d.SecondValidIDURL = "" },
	}

	t.Run("EachMissingDocumentBlocks", func(t *testing.T) {
		for i, clearSlot := range clear {
			d := completeDraft(StepCredentials)
			clearSlot(&d.Documents)

			assert.ErrorIs(t, d.Advance(), ErrDocumentsIncomplete, "slot %d", i)
			assert.Equal(t, StepCredentials, d.Step)
			assert.Len(t, d.Documents.Missing(), 1)
		}
	})

	t.Run("AdvancesWithAllFive", func(t *testing.T) {
		d := completeDraft(StepCredentials)
		assert.True(t, d.Documents.Complete())
		assert.NoError(t, d.Advance())
		assert.Equal(t, StepSummary, d.Step)
	})
}

func TestDocumentsSet(t *testing.T) {
	var docs Documents

	for _, slot := range DocumentSlots {
		assert.NoError(t, docs.Set(slot, "/uploads/documents/"+string(slot)+".jpg"))
	}
	assert.True(t, docs.Complete())

	assert.Error(t, docs.Set("passport", "/uploads/documents/passport.jpg"))
}

func TestAdvanceStopsAtSummary(t *testing.T) {
	d := completeDraft(StepSummary)
	assert.ErrorIs(t, d.Advance(), ErrAlreadyAtSummary)
	assert.Equal(t, StepSummary, d.Step)
}

func TestBack(t *testing.T) {
	t.Run("StepsBackward", func(t *testing.T) {
		d := completeDraft(StepSummary)

		for _, want := range []Step{StepCredentials, StepPayment, StepRenter, StepVehicle} {
			exited := d.Back()
			assert.False(t, exited)
			assert.Equal(t, want, d.Step)
		}
	})

	t.Run("ExitsFromFirstStep", func(t *testing.T) {
		d := NewDraft(42, testCar(), "", "")
		assert.True(t, d.Back())
		assert.Equal(t, StepVehicle, d.Step)
	})

	t.Run("InputsSurviveBack", func(t *testing.T) {
		d := completeDraft(StepSummary)
		d.Back()
		d.Back()

		assert.Equal(t, "GCash", d.PaymentMethod)
		assert.True(t, d.Documents.Complete())
	})
}

func TestBooking(t *testing.T) {
	t.Run("OnlyFromSummary", func(t *testing.T) {
		for _, step := range []Step{StepVehicle, StepRenter, StepPayment, StepCredentials} {
			d := completeDraft(step)
			booking, err := d.Booking("ref-123")
			assert.ErrorIs(t, err, ErrNotAtSummary)
			assert.Nil(t, booking)
		}
	})

	t.Run("MaterializesPendingBooking", func(t *testing.T) {
		d := completeDraft(StepSummary)
		booking, err := d.Booking("ref-123")

		assert.NoError(t, err)
		assert.Equal(t, "ref-123", booking.Reference)
		assert.Equal(t, uint(42), booking.UserID)
		assert.Equal(t, uint(7), booking.CarID)
		assert.Equal(t, "Toyota Vios", booking.CarModel)
		assert.Equal(t, "ABC 1234", booking.PlateNumber)
		assert.Equal(t, models.BookingStatusPending, booking.Status)

		assert.Equal(t, 3, booking.RentalDays)
		assert.Equal(t, 7500.0, booking.TotalPrice)
		assert.Equal(t, 500.0, booking.ReservationFee)
		assert.Equal(t, 7000.0, booking.RemainingBalance)

		assert.Equal(t, "/uploads/documents/dl.jpg", booking.DriversLicenseURL)
		assert.Equal(t, "/uploads/documents/id2.jpg", booking.SecondValidIDURL)
		assert.Equal(t, "/uploads/payments/proof.jpg", booking.PaymentProofURL)
	})
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "Vehicle", StepVehicle.String())
	assert.Equal(t, "Summary", StepSummary.String())
	assert.Equal(t, "Unknown", Step(99).String())
}
