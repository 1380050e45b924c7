package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adire-living/backend-adire/internal/pricing"
)

// ErrNotFound is returned when an order does not exist.
var ErrNotFound = errors.New("order: not found")

// Order is the persisted order record with its priced totals frozen at
// confirmation time.
type Order struct {
	ID             uuid.UUID        `json:"id"`
	Status         string           `json:"status"`
	Region         string           `json:"region"`
	Mode           pricing.ModeKind `json:"mode"`
	CustomerEmail  string           `json:"customerEmail"`
	Subtotal       pricing.Money    `json:"subtotal"`
	VAT            pricing.Money    `json:"vat"`
	DeliveryFee    pricing.Money    `json:"deliveryFee"`
	InsuranceFee   pricing.Money    `json:"insuranceFee"`
	ServiceFee     pricing.Money    `json:"serviceFee"`
	RentalFee      pricing.Money    `json:"rentalFee"`
	Total          pricing.Money    `json:"total"`
	DownPayment    pricing.Money    `json:"downPayment"`
	MonthlyPayment pricing.Money    `json:"monthlyPayment"`
	ScheduleMonths int              `json:"scheduleMonths"`
	PurchasedAt    time.Time        `json:"purchasedAt"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// Line is one priced cart line frozen into the order.
type Line struct {
	ID                     uuid.UUID     `json:"id"`
	OrderID                uuid.UUID     `json:"orderId"`
	ProductID              string        `json:"productId"`
	Variant                string        `json:"variant,omitempty"`
	UnitPrice              pricing.Money `json:"unitPrice"`
	Qty                    int           `json:"qty"`
	CustomizationSurcharge pricing.Money `json:"customizationSurcharge,omitempty"`
	RequiresTruckDelivery  bool          `json:"requiresTruckDelivery,omitempty"`
}

// ScheduleEntry is one row of the immutable payment schedule snapshot.
type ScheduleEntry struct {
	OrderID   uuid.UUID     `json:"orderId"`
	Seq       int           `json:"seq"`
	DueDate   time.Time     `json:"dueDate"`
	Amount    pricing.Money `json:"amount"`
	PaidToday bool          `json:"paidToday"`
}

// DueEntry pairs a schedule entry with the order context a reminder needs.
type DueEntry struct {
	ScheduleEntry
	CustomerEmail string
	Mode          pricing.ModeKind
}

// OrderStatusConfirmed is the only status this service writes today. Payment
// capture updates arrive through a separate settlement integration.
const OrderStatusConfirmed = "confirmed"

// DBTX abstracts a pgx pool or transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore persists orders, lines, and schedule snapshots.
type PGStore struct {
	DB DBTX
}

// WithTx returns a store bound to the given transaction.
func (s PGStore) WithTx(tx pgx.Tx) PGStore {
	return PGStore{DB: tx}
}

// InsertOrder writes the order row.
func (s PGStore) InsertOrder(ctx context.Context, o Order) error {
	const query = `
		INSERT INTO orders (
			id, status, region, mode, customer_email,
			subtotal, vat, delivery_fee, insurance_fee, service_fee, rental_fee,
			total, down_payment, monthly_payment, schedule_months,
			purchased_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,now())`
	_, err := s.DB.Exec(ctx, query,
		o.ID, o.Status, o.Region, o.Mode, o.CustomerEmail,
		o.Subtotal, o.VAT, o.DeliveryFee, o.InsuranceFee, o.ServiceFee, o.RentalFee,
		o.Total, o.DownPayment, o.MonthlyPayment, o.ScheduleMonths,
		o.PurchasedAt,
	)
	return err
}

// InsertLine writes one order line.
func (s PGStore) InsertLine(ctx context.Context, l Line) error {
	const query = `
		INSERT INTO order_lines (
			id, order_id, product_id, variant, unit_price, qty,
			customization_surcharge, requires_truck_delivery
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := s.DB.Exec(ctx, query,
		l.ID, l.OrderID, l.ProductID, l.Variant, l.UnitPrice, l.Qty,
		l.CustomizationSurcharge, l.RequiresTruckDelivery,
	)
	return err
}

// InsertScheduleEntry writes one schedule row.
func (s PGStore) InsertScheduleEntry(ctx context.Context, e ScheduleEntry) error {
	const query = `
		INSERT INTO payment_schedule_entries (order_id, seq, due_date, amount, paid_today)
		VALUES ($1,$2,$3,$4,$5)`
	_, err := s.DB.Exec(ctx, query, e.OrderID, e.Seq, pgtype.Date{Time: e.DueDate, Valid: true}, e.Amount, e.PaidToday)
	return err
}

// GetOrder fetches a single order by id.
func (s PGStore) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	const query = `
		SELECT id, status, region, mode, customer_email,
		       subtotal, vat, delivery_fee, insurance_fee, service_fee, rental_fee,
		       total, down_payment, monthly_payment, schedule_months,
		       purchased_at, created_at
		FROM orders WHERE id = $1`
	var o Order
	err := s.DB.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Status, &o.Region, &o.Mode, &o.CustomerEmail,
		&o.Subtotal, &o.VAT, &o.DeliveryFee, &o.InsuranceFee, &o.ServiceFee, &o.RentalFee,
		&o.Total, &o.DownPayment, &o.MonthlyPayment, &o.ScheduleMonths,
		&o.PurchasedAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

// ListLines returns the order's lines in insertion order.
func (s PGStore) ListLines(ctx context.Context, orderID uuid.UUID) ([]Line, error) {
	const query = `
		SELECT id, order_id, product_id, variant, unit_price, qty,
		       customization_surcharge, requires_truck_delivery
		FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := s.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Variant, &l.UnitPrice, &l.Qty,
			&l.CustomizationSurcharge, &l.RequiresTruckDelivery); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListScheduleEntries returns the schedule snapshot ordered by sequence.
func (s PGStore) ListScheduleEntries(ctx context.Context, orderID uuid.UUID) ([]ScheduleEntry, error) {
	const query = `
		SELECT order_id, seq, due_date, amount, paid_today
		FROM payment_schedule_entries WHERE order_id = $1 ORDER BY seq`
	rows, err := s.DB.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListEntriesDueBetween returns unpaid-today entries with due dates inside
// [from, to], joined with reminder context.
func (s PGStore) ListEntriesDueBetween(ctx context.Context, from, to time.Time) ([]DueEntry, error) {
	const query = `
		SELECT e.order_id, e.seq, e.due_date, e.amount, e.paid_today, o.customer_email, o.mode
		FROM payment_schedule_entries e
		JOIN orders o ON o.id = e.order_id
		WHERE NOT e.paid_today AND e.due_date BETWEEN $1 AND $2
		ORDER BY e.due_date, e.order_id, e.seq`
	return s.queryDue(ctx, query, pgtype.Date{Time: from, Valid: true}, pgtype.Date{Time: to, Valid: true})
}

// ListEntriesOverdue returns unpaid-today entries strictly past their due date.
func (s PGStore) ListEntriesOverdue(ctx context.Context, asOf time.Time) ([]DueEntry, error) {
	const query = `
		SELECT e.order_id, e.seq, e.due_date, e.amount, e.paid_today, o.customer_email, o.mode
		FROM payment_schedule_entries e
		JOIN orders o ON o.id = e.order_id
		WHERE NOT e.paid_today AND e.due_date < $1
		ORDER BY e.due_date, e.order_id, e.seq`
	return s.queryDue(ctx, query, pgtype.Date{Time: asOf, Valid: true})
}

func (s PGStore) queryDue(ctx context.Context, query string, args ...any) ([]DueEntry, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DueEntry
	for rows.Next() {
		var (
			d   DueEntry
			due pgtype.Date
		)
		if err := rows.Scan(&d.OrderID, &d.Seq, &due, &d.Amount, &d.PaidToday, &d.CustomerEmail, &d.Mode); err != nil {
			return nil, err
		}
		d.DueDate = due.Time
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanEntries(rows pgx.Rows) ([]ScheduleEntry, error) {
	var out []ScheduleEntry
	for rows.Next() {
		var (
			e   ScheduleEntry
			due pgtype.Date
		)
		if err := rows.Scan(&e.OrderID, &e.Seq, &due, &e.Amount, &e.PaidToday); err != nil {
			return nil, err
		}
		e.DueDate = due.Time
		out = append(out, e)
	}
	return out, rows.Err()
}
