package pricing

import (
	"errors"
	"testing"
)

func standardCart() []CartLine {
	return []CartLine{
		{ProductID: "sofa-3-seater", UnitPrice: 40_000, Qty: 2, Variant: "walnut"},
		{ProductID: "side-table", UnitPrice: 10_000, Qty: 2},
	}
}

func TestComputeFullPayment(t *testing.T) {
	rates := DefaultRateTable()
	fee, _ := rates.DeliveryFee("Lagos", false)
	q, err := Compute(standardCart(), FullPayment(), fee, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subtotal != 100_000 {
		t.Fatalf("expected subtotal 100000, got %d", q.Subtotal)
	}
	if q.VAT != 7_500 {
		t.Fatalf("expected vat 7500, got %d", q.VAT)
	}
	if q.Total != 110_500 {
		t.Fatalf("expected total 110500, got %d", q.Total)
	}
	if q.DownPayment != q.Total {
		t.Fatalf("full payment down payment must equal total, got %d vs %d", q.DownPayment, q.Total)
	}
	if q.ScheduleMonths != 0 || q.MonthlyPayment != 0 {
		t.Fatalf("full payment must not carry a schedule, got months=%d monthly=%d", q.ScheduleMonths, q.MonthlyPayment)
	}
}

func TestComputeInstallment(t *testing.T) {
	rates := DefaultRateTable()
	q, err := Compute(standardCart(), Installment(3, false), 0, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// financed base 107500, 70% down, 5%/month service on the remainder
	if q.DownPayment != 75_250 {
		t.Fatalf("expected down payment 75250, got %d", q.DownPayment)
	}
	if q.ServiceFee != 4_838 {
		t.Fatalf("expected service fee 4838, got %d", q.ServiceFee)
	}
	if q.Total != 112_338 {
		t.Fatalf("expected total 112338, got %d", q.Total)
	}
	if q.MonthlyPayment != 12_363 {
		t.Fatalf("expected monthly payment 12363, got %d", q.MonthlyPayment)
	}
	if q.ScheduleMonths != 3 {
		t.Fatalf("expected 3 schedule months, got %d", q.ScheduleMonths)
	}
	sum := q.Subtotal + q.VAT + q.DeliveryFee + q.InsuranceFee + q.ServiceFee
	if q.Total != sum {
		t.Fatalf("total %d does not equal component sum %d", q.Total, sum)
	}
}

func TestComputeInstallmentInsurance(t *testing.T) {
	rates := DefaultRateTable()
	q, err := Compute(standardCart(), Installment(4, true), 3_000, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.InsuranceFee != 2_000 {
		t.Fatalf("expected insurance fee 2000, got %d", q.InsuranceFee)
	}
	// 112500 financed, 70% down.
	if q.DownPayment != 78_750 {
		t.Fatalf("expected down payment 78750, got %d", q.DownPayment)
	}
}

func TestComputeRentToOwn(t *testing.T) {
	rates := DefaultRateTable()
	q, err := Compute(standardCart(), RentToOwn(true), 3_000, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.RentalFee != 1_000 {
		t.Fatalf("expected rental fee 1000, got %d", q.RentalFee)
	}
	if q.InsuranceFee != 2_000 {
		t.Fatalf("expected insurance fee 2000, got %d", q.InsuranceFee)
	}
	if q.MonthlyPayment != 3_000 {
		t.Fatalf("expected monthly payment 3000, got %d", q.MonthlyPayment)
	}
	if q.ScheduleMonths != 12 {
		t.Fatalf("expected 12 schedule months, got %d", q.ScheduleMonths)
	}
	if q.Total != 36_000 {
		t.Fatalf("expected total 36000, got %d", q.Total)
	}
	if q.DownPayment != 0 {
		t.Fatalf("rent-to-own has no down payment, got %d", q.DownPayment)
	}
	// Rent-to-own never charges the delivery fee passed by the caller.
	if q.DeliveryFee != 0 || q.VAT != 0 {
		t.Fatalf("rent-to-own must not carry vat/delivery, got vat=%d delivery=%d", q.VAT, q.DeliveryFee)
	}
}

func TestComputeSubscriptionPassThrough(t *testing.T) {
	mode := Subscription("studio-refresh", RefreshQuarterly)
	mode.PlanMonthlyPrice = 25_000
	q, err := Compute(standardCart(), mode, 3_000, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.MonthlyPayment != 25_000 || q.Total != 25_000 {
		t.Fatalf("subscription price must pass through unmodified, got monthly=%d total=%d", q.MonthlyPayment, q.Total)
	}
	if q.VAT != 0 || q.ServiceFee != 0 || q.DeliveryFee != 0 {
		t.Fatalf("subscription quotes carry no computed fees: %+v", q)
	}
}

func TestComputeSubscriptionValidation(t *testing.T) {
	mode := Subscription("studio-refresh", "monthly")
	mode.PlanMonthlyPrice = 25_000
	if _, err := Compute(standardCart(), mode, 0, DefaultRateTable()); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode for bad refresh frequency, got %v", err)
	}
	mode = Subscription("ghost-plan", RefreshBiannual)
	if _, err := Compute(standardCart(), mode, 0, DefaultRateTable()); !errors.Is(err, ErrUnknownPlan) {
		t.Fatalf("expected ErrUnknownPlan for unresolved plan, got %v", err)
	}
}

func TestComputeInvalidMonths(t *testing.T) {
	for _, months := range []int{0, 1, 7, 13} {
		if _, err := Compute(standardCart(), Installment(months, false), 3_000, DefaultRateTable()); !errors.Is(err, ErrInvalidMode) {
			t.Fatalf("months=%d: expected ErrInvalidMode, got %v", months, err)
		}
	}
}

func TestComputeInvalidCart(t *testing.T) {
	rates := DefaultRateTable()
	cases := map[string][]CartLine{
		"empty":              {},
		"zero qty":           {{ProductID: "p", UnitPrice: 1_000, Qty: 0}},
		"negative price":     {{ProductID: "p", UnitPrice: -1, Qty: 1}},
		"negative surcharge": {{ProductID: "p", UnitPrice: 1_000, Qty: 1, CustomizationSurcharge: -5}},
	}
	for name, lines := range cases {
		if _, err := Compute(lines, FullPayment(), 0, rates); !errors.Is(err, ErrInvalidCart) {
			t.Fatalf("%s: expected ErrInvalidCart, got %v", name, err)
		}
	}
}

func TestComputeCustomizationSurcharge(t *testing.T) {
	lines := []CartLine{{ProductID: "bed-frame", UnitPrice: 50_000, Qty: 1, CustomizationSurcharge: 5_000}}
	q, err := Compute(lines, FullPayment(), 0, DefaultRateTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Subtotal != 55_000 {
		t.Fatalf("expected subtotal 55000, got %d", q.Subtotal)
	}
}

func TestComputeDeterministic(t *testing.T) {
	rates := DefaultRateTable()
	first, err := Compute(standardCart(), Installment(5, true), 7_500, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Compute(standardCart(), Installment(5, true), 7_500, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("identical inputs must produce identical quotes:\n%+v\n%+v", first, second)
	}
}

func TestInstallmentConservation(t *testing.T) {
	rates := DefaultRateTable()
	subtotals := []Money{999, 33_333, 100_000, 249_999, 1_234_567}
	for _, subtotal := range subtotals {
		lines := []CartLine{{ProductID: "p", UnitPrice: subtotal, Qty: 1}}
		for months := MinInstallmentMonths; months <= MaxInstallmentMonths; months++ {
			q, err := Compute(lines, Installment(months, false), 3_000, rates)
			if err != nil {
				t.Fatalf("subtotal=%d months=%d: %v", subtotal, months, err)
			}
			paid := q.DownPayment + q.MonthlyPayment*Money(months)
			drift := paid - q.Total
			if drift < 0 {
				drift = -drift
			}
			if drift > Money(months) {
				t.Fatalf("subtotal=%d months=%d: drift %d exceeds %d units", subtotal, months, drift, months)
			}
		}
	}
}

func TestRoundingHalfUp(t *testing.T) {
	rates := DefaultRateTable()
	// 10 * 7.5% = 0.75, rounds up to 1.
	lines := []CartLine{{ProductID: "p", UnitPrice: 10, Qty: 1}}
	q, err := Compute(lines, FullPayment(), 0, rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.VAT != 1 {
		t.Fatalf("expected vat rounded half up to 1, got %d", q.VAT)
	}
}
