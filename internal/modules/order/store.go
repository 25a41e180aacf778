// README: Order and fee-result persistence backed by PostgreSQL.
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campusgo/internal/modules/fees"
	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

var ErrNotFound = errors.New("order not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, o *Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (
			id, category, created_at,
			pickup_lat, pickup_lng, delivery_lat, delivery_lng,
			weight_kg, large_item,
			product_price, quantity, expected_price,
			merchant_id, merchant_tier,
			expected_delivery_at, delivered_at,
			insurance, declared_value, signature_service, packaging_service,
			agent_income, standard_delivery
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9,
			$10, $11, $12,
			$13, $14,
			$15, $16,
			$17, $18, $19, $20,
			$21, $22
		)`,
		string(o.ID), string(o.Category), o.Created,
		o.Pickup.Lat, o.Pickup.Lng, o.Delivery.Lat, o.Delivery.Lng,
		o.Weight, o.Large,
		o.ProductPrice, o.Quantity, o.Expected,
		merchantIDPtr(o.MerchantID), o.Tier,
		o.ExpectedBy, o.Delivered,
		o.Insured, o.Declared, o.Signature, o.Packaging,
		o.Income, o.Standard,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, category, created_at,
		       pickup_lat, pickup_lng, delivery_lat, delivery_lng,
		       weight_kg, large_item,
		       product_price, quantity, expected_price,
		       merchant_id, merchant_tier,
		       expected_delivery_at, delivered_at,
		       insurance, declared_value, signature_service, packaging_service,
		       agent_income, standard_delivery
		FROM orders WHERE id = $1`, string(id))

	var o Order
	var orderID, category string
	var merchantID *string
	err := row.Scan(&orderID, &category, &o.Created,
		&o.Pickup.Lat, &o.Pickup.Lng, &o.Delivery.Lat, &o.Delivery.Lng,
		&o.Weight, &o.Large,
		&o.ProductPrice, &o.Quantity, &o.Expected,
		&merchantID, &o.Tier,
		&o.ExpectedBy, &o.Delivered,
		&o.Insured, &o.Declared, &o.Signature, &o.Packaging,
		&o.Income, &o.Standard,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}
	o.ID = types.ID(orderID)
	o.Category = rates.Category(category)
	if merchantID != nil {
		mid := types.ID(*merchantID)
		o.MerchantID = &mid
	}
	return &o, nil
}

// SaveFeeResult records a computed fee next to its order. Results are
// immutable, so a re-computation inserts a fresh row.
func (s *Store) SaveFeeResult(ctx context.Context, res fees.FeeResult) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_fee_results (
			order_id, base_fee, delivery_fee, service_fee, total_fee,
			delivery_income, platform_income, merchant_income, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		string(res.OrderID),
		res.BaseFee.Amount, res.DeliveryFee.Amount,
		res.ServiceFee.Amount, res.TotalFee.Amount,
		res.Distribution.DeliveryIncome.Amount,
		res.Distribution.PlatformIncome.Amount,
		res.Distribution.MerchantIncome.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert fee result: %w", err)
	}
	return nil
}

func merchantIDPtr(id *types.ID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}
