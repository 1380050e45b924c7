package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCart is returned when the cart is empty or a line is malformed.
	ErrInvalidCart = errors.New("cart is empty or contains an invalid line")
	// ErrInvalidMode is returned when acquisition mode parameters are out of range.
	ErrInvalidMode = errors.New("invalid acquisition mode")
	// ErrUnknownPlan is returned when a subscription references a plan that does not exist.
	ErrUnknownPlan = errors.New("subscription plan not found")
	// ErrUnknownRegion is returned by strict resolvers for unrecognised delivery regions.
	ErrUnknownRegion = errors.New("delivery region not recognised")
)

// ModeKind identifies how the customer acquires the items in the cart.
type ModeKind string

const (
	// ModeFullPayment pays the whole total upfront.
	ModeFullPayment ModeKind = "full_payment"
	// ModeInstallment finances the total over 2-6 months after a down payment.
	ModeInstallment ModeKind = "installment"
	// ModeRentToOwn rents over a fixed 12-month horizon before ownership transfer.
	ModeRentToOwn ModeKind = "rent_to_own"
	// ModeSubscription bills a fixed catalog price with periodic item refresh.
	ModeSubscription ModeKind = "subscription"
)

// Installment duration bounds and the rent-to-own ownership horizon.
const (
	MinInstallmentMonths = 2
	MaxInstallmentMonths = 6
	RentToOwnMonths      = 12
)

// RefreshFrequency is how often subscription items are swapped.
type RefreshFrequency string

const (
	RefreshQuarterly RefreshFrequency = "quarterly"
	RefreshBiannual  RefreshFrequency = "biannual"
)

// Mode is the tagged acquisition mode selected at checkout. Only the fields
// relevant to Kind are read.
type Mode struct {
	Kind           ModeKind
	Months         int
	InsuranceOptIn bool
	PlanID         string
	Refresh        RefreshFrequency
	// PlanMonthlyPrice is the catalog price resolved by the caller for
	// subscription quotes. The engine passes it through unmodified.
	PlanMonthlyPrice Money
}

// FullPayment builds a full upfront payment mode.
func FullPayment() Mode { return Mode{Kind: ModeFullPayment} }

// Installment builds a financing mode over the given number of months.
func Installment(months int, insuranceOptIn bool) Mode {
	return Mode{Kind: ModeInstallment, Months: months, InsuranceOptIn: insuranceOptIn}
}

// RentToOwn builds a 12-month rent-to-own mode.
func RentToOwn(insuranceOptIn bool) Mode {
	return Mode{Kind: ModeRentToOwn, Months: RentToOwnMonths, InsuranceOptIn: insuranceOptIn}
}

// Subscription builds a subscription mode for the referenced plan.
func Subscription(planID string, refresh RefreshFrequency) Mode {
	return Mode{Kind: ModeSubscription, PlanID: planID, Refresh: refresh}
}

// CartLine is one product selection. Lines are immutable once quoted.
type CartLine struct {
	ProductID              string
	UnitPrice              Money
	Qty                    int
	Variant                string
	CustomizationSurcharge Money
	RequiresTruckDelivery  bool
}

// Quote is the fully itemized pricing result for one cart and mode.
//
// For full payment and installment quotes
// Total == Subtotal + VAT + DeliveryFee + InsuranceFee + ServiceFee.
// For rent-to-own, InsuranceFee and RentalFee are per month and Total is the
// informational 12-month sum. Subscription quotes carry the catalog monthly
// price through untouched.
type Quote struct {
	Mode           ModeKind `json:"mode"`
	Subtotal       Money    `json:"subtotal"`
	VAT            Money    `json:"vat"`
	DeliveryFee    Money    `json:"deliveryFee"`
	InsuranceFee   Money    `json:"insuranceFee"`
	ServiceFee     Money    `json:"serviceFee"`
	RentalFee      Money    `json:"rentalFee"`
	Total          Money    `json:"total"`
	DownPayment    Money    `json:"downPayment"`
	MonthlyPayment Money    `json:"monthlyPayment"`
	ScheduleMonths int      `json:"scheduleMonths"`
}

// RequiresTruckDelivery reports whether any line needs the truck delivery table.
func RequiresTruckDelivery(lines []CartLine) bool {
	for _, l := range lines {
		if l.RequiresTruckDelivery {
			return true
		}
	}
	return false
}

// Compute produces a Quote from the cart lines, acquisition mode, resolved
// delivery fee and rate table. It is a pure function: no I/O, no shared
// state, safe to call on every input change for live preview.
func Compute(lines []CartLine, mode Mode, deliveryFee Money, rates RateTable) (Quote, error) {
	if err := validateLines(lines); err != nil {
		return Quote{}, err
	}
	if err := validateMode(mode); err != nil {
		return Quote{}, err
	}

	var subtotal Money
	for _, l := range lines {
		subtotal += l.UnitPrice*Money(l.Qty) + l.CustomizationSurcharge
	}

	switch mode.Kind {
	case ModeFullPayment:
		return computeFullPayment(subtotal, deliveryFee, rates), nil
	case ModeInstallment:
		return computeInstallment(subtotal, deliveryFee, mode, rates), nil
	case ModeRentToOwn:
		return computeRentToOwn(subtotal, mode, rates), nil
	default:
		return computeSubscription(subtotal, mode), nil
	}
}

func validateLines(lines []CartLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrInvalidCart)
	}
	for i, l := range lines {
		if l.Qty <= 0 {
			return fmt.Errorf("%w: line %d qty must be positive", ErrInvalidCart, i)
		}
		if l.UnitPrice < 0 {
			return fmt.Errorf("%w: line %d unit price is negative", ErrInvalidCart, i)
		}
		if l.CustomizationSurcharge < 0 {
			return fmt.Errorf("%w: line %d customization surcharge is negative", ErrInvalidCart, i)
		}
	}
	return nil
}

func validateMode(mode Mode) error {
	switch mode.Kind {
	case ModeFullPayment, ModeRentToOwn:
		return nil
	case ModeInstallment:
		if mode.Months < MinInstallmentMonths || mode.Months > MaxInstallmentMonths {
			return fmt.Errorf("%w: months must be between %d and %d", ErrInvalidMode, MinInstallmentMonths, MaxInstallmentMonths)
		}
		return nil
	case ModeSubscription:
		if mode.Refresh != RefreshQuarterly && mode.Refresh != RefreshBiannual {
			return fmt.Errorf("%w: unsupported refresh frequency %q", ErrInvalidMode, mode.Refresh)
		}
		if mode.PlanMonthlyPrice <= 0 {
			return fmt.Errorf("%w: %q", ErrUnknownPlan, mode.PlanID)
		}
		return nil
	}
	return fmt.Errorf("%w: unsupported kind %q", ErrInvalidMode, mode.Kind)
}

func computeFullPayment(subtotal, deliveryFee Money, rates RateTable) Quote {
	vat := applyRate(subtotal, rates.VATRateBPS)
	total := subtotal + vat + deliveryFee
	return Quote{
		Mode:        ModeFullPayment,
		Subtotal:    subtotal,
		VAT:         vat,
		DeliveryFee: deliveryFee,
		Total:       total,
		DownPayment: total,
	}
}

func computeInstallment(subtotal, deliveryFee Money, mode Mode, rates RateTable) Quote {
	vat := applyRate(subtotal, rates.VATRateBPS)
	baseTotal := subtotal + vat + deliveryFee

	var insurance Money
	if mode.InsuranceOptIn {
		insurance = applyRate(subtotal, rates.InsuranceRateBPS)
	}

	financed := baseTotal + insurance
	downPayment := applyRate(financed, rates.DownPaymentRateBPS)
	remaining := financed - downPayment
	// Charged once, proportional to the remaining balance and the chosen
	// duration. Not compounding monthly on a shrinking balance.
	serviceFee := applyRate(remaining, rates.ServiceFeeRateBPS*int64(mode.Months))
	monthly := divRound(remaining+serviceFee, int64(mode.Months))

	return Quote{
		Mode:           ModeInstallment,
		Subtotal:       subtotal,
		VAT:            vat,
		DeliveryFee:    deliveryFee,
		InsuranceFee:   insurance,
		ServiceFee:     serviceFee,
		Total:          downPayment + remaining + serviceFee,
		DownPayment:    downPayment,
		MonthlyPayment: monthly,
		ScheduleMonths: mode.Months,
	}
}

func computeRentToOwn(subtotal Money, mode Mode, rates RateTable) Quote {
	rental := applyRate(subtotal, rates.RentalRateBPS)
	var insurance Money
	if mode.InsuranceOptIn {
		insurance = applyRate(subtotal, rates.InsuranceRateBPS)
	}
	monthly := rental + insurance
	return Quote{
		Mode:           ModeRentToOwn,
		Subtotal:       subtotal,
		InsuranceFee:   insurance,
		RentalFee:      rental,
		Total:          monthly * RentToOwnMonths,
		MonthlyPayment: monthly,
		ScheduleMonths: RentToOwnMonths,
	}
}

func computeSubscription(subtotal Money, mode Mode) Quote {
	// Subscription prices are catalog constants; no tax or fee computation
	// applies. Subtotal is reported for display only.
	return Quote{
		Mode:           ModeSubscription,
		Subtotal:       subtotal,
		Total:          mode.PlanMonthlyPrice,
		MonthlyPayment: mode.PlanMonthlyPrice,
	}
}
