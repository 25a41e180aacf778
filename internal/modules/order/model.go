// README: Order aggregate; the three campus order variants share one shape.
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"campusgo/internal/modules/fees"
	"campusgo/internal/modules/rates"
	"campusgo/internal/types"
)

// Order carries everything the fee engine may read. Mail, shopping and
// purchase orders differ only in which optional fields they populate, so
// one struct backs all three categories.
type Order struct {
	ID       types.ID
	Category rates.Category
	Created  *time.Time

	Pickup   types.Point
	Delivery types.Point

	Weight float64
	Large  bool

	ProductPrice decimal.Decimal
	Quantity     int
	Expected     decimal.Decimal

	MerchantID *types.ID
	Tier       string

	ExpectedBy *time.Time
	Delivered  *time.Time

	Insured   bool
	Declared  decimal.Decimal
	Signature bool
	Packaging bool

	Income   decimal.Decimal
	Standard bool
}

var _ fees.FeeableOrder = (*Order)(nil)

// NewMail starts a mail-delivery order.
func NewMail() *Order {
	return newOrder(rates.CategoryMail)
}

// NewShopping starts a merchant-shopping order.
func NewShopping() *Order {
	return newOrder(rates.CategoryShopping)
}

// NewPurchase starts a proxy-purchase order.
func NewPurchase() *Order {
	return newOrder(rates.CategoryPurchase)
}

func newOrder(cat rates.Category) *Order {
	now := time.Now()
	return &Order{
		ID:       types.ID(uuid.NewString()),
		Category: cat,
		Created:  &now,
		Standard: true,
	}
}

func (o *Order) OrderID() types.ID                 { return o.ID }
func (o *Order) OrderCategory() rates.Category     { return o.Category }
func (o *Order) CreatedAt() *time.Time             { return o.Created }
func (o *Order) PickupPoint() types.Point          { return o.Pickup }
func (o *Order) DeliveryPoint() types.Point        { return o.Delivery }
func (o *Order) WeightKg() float64                 { return o.Weight }
func (o *Order) LargeItem() bool                   { return o.Large }
func (o *Order) ExpectedPrice() decimal.Decimal    { return o.Expected }
func (o *Order) HasMerchant() bool                 { return o.MerchantID != nil }
func (o *Order) MerchantTier() string              { return o.Tier }
func (o *Order) ExpectedDeliveryAt() *time.Time    { return o.ExpectedBy }
func (o *Order) DeliveredAt() *time.Time           { return o.Delivered }
func (o *Order) InsuranceRequested() bool          { return o.Insured }
func (o *Order) DeclaredValue() decimal.Decimal    { return o.Declared }
func (o *Order) SignatureRequested() bool          { return o.Signature }
func (o *Order) PackagingRequested() bool          { return o.Packaging }
func (o *Order) AgentIncome() decimal.Decimal      { return o.Income }
func (o *Order) StandardDelivery() bool            { return o.Standard }
