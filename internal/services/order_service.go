package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"thebaker/internal/domain"
	"thebaker/internal/repos"
)

// Points earned on completion: 3% of the order total, truncated.
var completionEarnRate = decimal.NewFromFloat(0.03)

// Manual staff credits use a higher courtesy rate.
var manualEarnRate = decimal.NewFromFloat(0.05)

const timeLayout = "2006-01-02 15:04:05"

type OrderService struct {
	DB        *sqlx.DB
	Products  *repos.ProductRepo
	Customers *repos.CustomerRepo
	Orders    *repos.OrderRepo
	Loc       *time.Location
}

func NewOrderService(db *sqlx.DB, products *repos.ProductRepo, customers *repos.CustomerRepo, orders *repos.OrderRepo, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderService{DB: db, Products: products, Customers: customers, Orders: orders, Loc: loc}
}

type OrderLine struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

type CreateOrderRequest struct {
	Phone            string      `json:"phone"`
	CustomerName     string      `json:"customerName"`
	Items            []OrderLine `json:"items"`
	Memo             string      `json:"memo"`
	PickupTime       string      `json:"pickupTime"`
	Takeaway         bool        `json:"takeaway"`
	WantsCut         bool        `json:"wantsCut"`
	MarketingConsent bool        `json:"marketingConsent"`
	PointsToUse      int         `json:"pointsToUse"`
}

func (s *OrderService) now() string {
	return time.Now().In(s.Loc).Format(timeLayout)
}

// Create reserves stock and debits points for a new PENDING order. All
// effects apply in one transaction: a failing line or point debit rolls back
// every reservation made before it.
func (s *OrderService) Create(req CreateOrderRequest) (domain.Order, error) {
	var o domain.Order
	if len(req.Items) == 0 {
		return o, fmt.Errorf("%w: order needs at least one item", domain.ErrValidation)
	}
	for _, line := range req.Items {
		if line.Qty < 1 {
			return o, fmt.Errorf("%w: quantity must be at least 1 for %s", domain.ErrValidation, line.ProductID)
		}
	}
	if req.PointsToUse < 0 {
		return o, fmt.Errorf("%w: pointsToUse must not be negative", domain.ErrValidation)
	}

	// A product may appear on several lines; it is stored as one line with
	// the summed quantity.
	merged := make([]OrderLine, 0, len(req.Items))
	index := make(map[string]int, len(req.Items))
	for _, line := range req.Items {
		if i, ok := index[line.ProductID]; ok {
			merged[i].Qty += line.Qty
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return o, err
	}
	defer func() { _ = tx.Rollback() }()

	customer, err := s.Customers.FindOrCreate(tx, req.Phone, "Guest")
	if err != nil {
		return o, err
	}
	name := customer.Name
	if req.CustomerName != "" {
		name = req.CustomerName
	} else if name == "" {
		name = "Guest"
	}
	if err := s.Customers.UpdateProfile(tx, customer.ID, name, req.MarketingConsent); err != nil {
		return o, err
	}

	total := decimal.Zero
	items := make([]domain.OrderItem, 0, len(merged))
	for _, line := range merged {
		p, err := s.Products.GetTx(tx, line.ProductID)
		if err != nil {
			return o, err
		}
		if err := s.Products.Reserve(tx, line.ProductID, line.Qty); err != nil {
			return o, err
		}
		// Snapshot the price at reservation time; later catalog edits must
		// not change historical lines.
		items = append(items, domain.OrderItem{
			ProductID:       p.ID,
			Qty:             line.Qty,
			PriceAtPurchase: p.Price,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}

	if req.PointsToUse > 0 {
		if err := s.Customers.AdjustPoints(tx, customer.ID, -req.PointsToUse); err != nil {
			return o, err
		}
	}

	o = domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		OrderedAt:  s.now(),
		Total:      total,
		PointsUsed: req.PointsToUse,
		Memo:       req.Memo,
		PickupTime: req.PickupTime,
		Takeaway:   req.Takeaway,
		WantsCut:   req.WantsCut,
		Status:     domain.StatusPending,
		Items:      items,
	}
	if err := s.Orders.Insert(tx, o); err != nil {
		return o, err
	}
	return o, tx.Commit()
}

// Confirm moves a PENDING order to PROCESSING.
func (s *OrderService) Confirm(id string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.Orders.GetTx(tx, id); err != nil {
		return err
	}
	if err := s.Orders.SetStatus(tx, id, domain.StatusPending, domain.StatusProcessing); err != nil {
		return err
	}
	return tx.Commit()
}

// Complete credits 3% of the total as points and marks the order COMPLETED.
// Calling it on an already COMPLETED order is a no-op; a CANCELLED order is
// rejected.
func (s *OrderService) Complete(id string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, id)
	if err != nil {
		return err
	}
	switch o.Status {
	case domain.StatusCompleted:
		return nil
	case domain.StatusCancelled:
		return fmt.Errorf("%w: cannot complete cancelled order %s", domain.ErrInvalidTransition, id)
	}

	earned := int(o.Total.Mul(completionEarnRate).IntPart())
	if err := s.Customers.AdjustPoints(tx, o.CustomerID, earned); err != nil {
		return err
	}
	if err := s.Orders.MarkCompleted(tx, id, earned); err != nil {
		return err
	}
	return tx.Commit()
}

// Cancel restores every line's quantity to stock, exactly once. Points used
// or earned are deliberately left untouched; Revert is the correction flow
// for points.
func (s *OrderService) Cancel(id string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, id)
	if err != nil {
		return err
	}
	if o.Status == domain.StatusCancelled {
		return fmt.Errorf("%w: order %s", domain.ErrAlreadyCancelled, id)
	}

	for _, it := range o.Items {
		if err := s.Products.Release(tx, it.ProductID, it.Qty); err != nil {
			return err
		}
	}
	if err := s.Orders.MarkCancelled(tx, id, s.now()); err != nil {
		return err
	}
	return tx.Commit()
}

// Revert undoes an erroneous credit: it claws back the order's earned points
// (floored at zero) and cancels the order. Stock is not touched.
func (s *OrderService) Revert(id string) error {
	tx, err := s.DB.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	o, err := s.Orders.GetTx(tx, id)
	if err != nil {
		return err
	}
	if o.Status == domain.StatusCancelled {
		return fmt.Errorf("%w: order %s", domain.ErrAlreadyCancelled, id)
	}

	if o.PointsEarned > 0 {
		c, err := s.Customers.GetTx(tx, o.CustomerID)
		if err != nil {
			return err
		}
		clawback := o.PointsEarned
		if c.Points < clawback {
			clawback = c.Points
		}
		if clawback > 0 {
			if err := s.Customers.AdjustPoints(tx, o.CustomerID, -clawback); err != nil {
				return err
			}
		}
	}
	if err := s.Orders.MarkCancelled(tx, id, ""); err != nil {
		return err
	}
	return tx.Commit()
}

// PayAndEarn is the counter quick flow: no line items, points validated and
// settled in one balance delta, and a COMPLETED order recorded for history.
func (s *OrderService) PayAndEarn(phone string, total decimal.Decimal, pointsToUse int, method domain.PaymentMethod) (domain.Order, error) {
	var o domain.Order
	if pointsToUse < 0 {
		return o, fmt.Errorf("%w: pointsToUse must not be negative", domain.ErrValidation)
	}
	if total.IsNegative() {
		return o, fmt.Errorf("%w: total must not be negative", domain.ErrValidation)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return o, err
	}
	defer func() { _ = tx.Rollback() }()

	customer, err := s.Customers.FindOrCreate(tx, phone, "Guest "+lastFour(phone))
	if err != nil {
		return o, err
	}
	if pointsToUse > 0 && customer.Points < pointsToUse {
		return o, fmt.Errorf("%w: balance %dP, requested %dP", domain.ErrInsufficientPoints, customer.Points, pointsToUse)
	}

	net := total.Sub(decimal.NewFromInt(int64(pointsToUse)))
	if net.IsNegative() {
		net = decimal.Zero
	}
	earned := method.EarnPoints(net)

	// One combined delta so no intermediate negative balance is observable.
	if delta := earned - pointsToUse; delta != 0 {
		if err := s.Customers.AdjustPoints(tx, customer.ID, delta); err != nil {
			return o, err
		}
	}

	o = domain.Order{
		ID:           uuid.NewString(),
		CustomerID:   customer.ID,
		OrderedAt:    s.now(),
		Total:        total,
		PointsUsed:   pointsToUse,
		PointsEarned: earned,
		Status:       domain.StatusCompleted,
	}
	if err := s.Orders.Insert(tx, o); err != nil {
		return o, err
	}
	return o, tx.Commit()
}

// AddPointsManually credits 5% of amount for a purchase rung up outside the
// order flow, recording an item-less COMPLETED order for the ledger.
func (s *OrderService) AddPointsManually(phone string, amount decimal.Decimal) (int, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}

	tx, err := s.DB.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	customer, err := s.Customers.FindOrCreate(tx, phone, "Walk-in "+phone)
	if err != nil {
		return 0, err
	}

	earned := int(amount.Mul(manualEarnRate).IntPart())
	if earned > 0 {
		if err := s.Customers.AdjustPoints(tx, customer.ID, earned); err != nil {
			return 0, err
		}
	}

	o := domain.Order{
		ID:           uuid.NewString(),
		CustomerID:   customer.ID,
		OrderedAt:    s.now(),
		Total:        amount,
		PointsEarned: earned,
		Status:       domain.StatusCompleted,
	}
	if err := s.Orders.Insert(tx, o); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return customer.Points + earned, nil
}

// Archive flags an order as handled on the staff board.
func (s *OrderService) Archive(id string) error {
	return s.Orders.SetArchived(id, true)
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	return s.Orders.Get(id)
}

// Status returns the order's status name, or "UNKNOWN" when it is absent.
func (s *OrderService) Status(id string) string {
	o, err := s.Orders.Get(id)
	if err != nil {
		return "UNKNOWN"
	}
	return string(o.Status)
}

func (s *OrderService) ListAll() ([]domain.Order, error) {
	return s.Orders.ListAll()
}

func (s *OrderService) FindByPhone(phone string) ([]domain.Order, error) {
	return s.Orders.ListByPhone(phone)
}

func (s *OrderService) CountPending() (int, error) {
	return s.Orders.CountByStatus(domain.StatusPending)
}

type PointEntry struct {
	Date   string `json:"date"`
	Earned int    `json:"points"`
	Used   int    `json:"used"`
}

type PointsSummary struct {
	TotalPoints int          `json:"totalPoints"`
	History     []PointEntry `json:"history"`
}

// Summary returns the balance plus the last five non-cancelled orders' point
// movements.
func (s *OrderService) Summary(phone string) (PointsSummary, error) {
	customer, err := s.Customers.ByPhone(phone)
	if err != nil {
		return PointsSummary{}, err
	}
	orders, err := s.Orders.ListByPhone(phone)
	if err != nil {
		return PointsSummary{}, err
	}
	sum := PointsSummary{TotalPoints: customer.Points, History: []PointEntry{}}
	for _, o := range orders {
		if o.Status == domain.StatusCancelled {
			continue
		}
		sum.History = append(sum.History, PointEntry{Date: o.OrderedAt, Earned: o.PointsEarned, Used: o.PointsUsed})
		if len(sum.History) == 5 {
			break
		}
	}
	return sum, nil
}

func lastFour(phone string) string {
	if len(phone) > 4 {
		return phone[len(phone)-4:]
	}
	return phone
}

// IsDomainErr reports whether err belongs to the caller-facing taxonomy (as
// opposed to a storage failure).
func IsDomainErr(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInsufficientPoints) ||
		errors.Is(err, domain.ErrAlreadyCancelled) ||
		errors.Is(err, domain.ErrValidation)
}
