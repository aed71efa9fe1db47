package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category controls which weekdays a product shows up in the public menu.
type Category string

const (
	CategoryHard Category = "HARD" // Thu, Fri, Sat
	CategorySoft Category = "SOFT" // Sun, Mon, Wed
	CategoryAll  Category = "ALL"
)

// AvailableOn reports whether a product of this category is listed on the
// given weekday. Unknown categories are never listed.
func (c Category) AvailableOn(day time.Weekday) bool {
	switch c {
	case CategoryAll:
		return true
	case CategoryHard:
		return day == time.Thursday || day == time.Friday || day == time.Saturday
	case CategorySoft:
		return day == time.Sunday || day == time.Monday || day == time.Wednesday
	}
	return false
}

func (c Category) Valid() bool {
	return c == CategoryHard || c == CategorySoft || c == CategoryAll
}

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentMethod carries the loyalty earn rate for the quick-payment flow.
type PaymentMethod string

const (
	PayCash PaymentMethod = "CASH"
	PayCard PaymentMethod = "CARD"
)

var earnRates = map[PaymentMethod]decimal.Decimal{
	PayCash: decimal.NewFromFloat(0.03),
	PayCard: decimal.NewFromFloat(0.03),
}

// EarnPoints truncates amount * rate to whole points. Unknown methods fall
// back to the card rate.
func (m PaymentMethod) EarnPoints(amount decimal.Decimal) int {
	rate, ok := earnRates[m]
	if !ok {
		rate = earnRates[PayCard]
	}
	return int(amount.Mul(rate).IntPart())
}

type Product struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Stock     int             `db:"stock" json:"stock"`
	Category  Category        `db:"category" json:"category"`
	ImagePath string          `db:"image_path" json:"imagePath,omitempty"`
	Active    bool            `db:"active" json:"active"`
	CreatedAt string          `db:"created_at" json:"createdAt"`
	UpdatedAt string          `db:"updated_at" json:"updatedAt,omitempty"`
}

type Customer struct {
	ID               string `db:"id" json:"id"`
	Phone            string `db:"phone" json:"phone"`
	Name             string `db:"name" json:"name"`
	Points           int    `db:"points" json:"points"`
	MarketingConsent bool   `db:"marketing_consent" json:"marketingConsent"`
	CreatedAt        string `db:"created_at" json:"createdAt"`
}

// Order owns its items; the customer reference is non-owning.
type Order struct {
	ID           string          `db:"id" json:"id"`
	CustomerID   string          `db:"customer_id" json:"customerId"`
	OrderedAt    string          `db:"ordered_at" json:"orderedAt"`
	CancelledAt  string          `db:"cancelled_at" json:"cancelledAt,omitempty"`
	Total        decimal.Decimal `db:"total" json:"total"`
	PointsUsed   int             `db:"points_used" json:"pointsUsed"`
	PointsEarned int             `db:"points_earned" json:"pointsEarned"`
	Memo         string          `db:"memo" json:"memo,omitempty"`
	PickupTime   string          `db:"pickup_time" json:"pickupTime,omitempty"`
	Takeaway     bool            `db:"takeaway" json:"takeaway"`
	WantsCut     bool            `db:"wants_cut" json:"wantsCut"`
	Archived     bool            `db:"archived" json:"archived"`
	Status       OrderStatus     `db:"status" json:"status"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

type OrderItem struct {
	OrderID   string          `db:"order_id" json:"-"`
	ProductID string          `db:"product_id" json:"productId"`
	Qty       int             `db:"qty" json:"qty"`
	// Price snapshot taken when stock was reserved; never recomputed from
	// the product's current price.
	PriceAtPurchase decimal.Decimal `db:"price_at_purchase" json:"priceAtPurchase"`
}
