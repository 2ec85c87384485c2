package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/verduraria/backend/internal/cart"
	"github.com/verduraria/backend/internal/coupons"
	"github.com/verduraria/backend/internal/inventory"
	"github.com/verduraria/backend/internal/loyalty"
	"github.com/verduraria/backend/internal/orders"
	"github.com/verduraria/backend/internal/pricing"
	"github.com/verduraria/backend/pkg/config"
	"github.com/verduraria/backend/pkg/db"
	"github.com/verduraria/backend/pkg/db/models"
	"github.com/verduraria/backend/pkg/enums"
	pkgerrors "github.com/verduraria/backend/pkg/errors"
	"github.com/verduraria/backend/pkg/logger"
	"github.com/verduraria/backend/pkg/mercadopago"
	"github.com/verduraria/backend/pkg/metrics"
	"github.com/verduraria/backend/pkg/types"
)

// CustomerInfo identifies the buyer. TaxID empty means anonymous checkout
// with no loyalty attribution.
type CustomerInfo struct {
	TaxID string
	Name  string
	Email string
	Phone string
	Notes string
}

// CheckoutInput drives both finalization protocols.
type CheckoutInput struct {
	CartID     string
	CouponCode string
	Customer   CustomerInfo
}

// PaymentInfo carries the gateway's view of a payment into the order.
type PaymentInfo struct {
	Status           enums.PaymentStatus
	GatewayPaymentID string
	Method           string
}

// Result pairs the committed order with the summary the storefront renders.
type Result struct {
	Order   *models.Order
	Summary *types.OrderSummary
}

// PendingResult is Result plus the gateway redirect for the payment page.
type PendingResult struct {
	Order        *models.Order
	Summary      *types.OrderSummary
	PreferenceID string
	InitPoint    string
}

// Service is the checkout orchestrator: it owns order creation and the
// transition into paid, and is the only caller of the stock-decrement,
// coupon-consume and loyalty-credit side effects.
type Service interface {
	// Preview computes the totals a finalization would produce. It never
	// mutates stock, coupon counters or loyalty state.
	Preview(ctx context.Context, cartID, couponCode string) (*types.OrderSummary, error)
	// Checkout is the synchronous protocol: stock, coupon use, loyalty and
	// the finalized order commit in one transaction.
	Checkout(ctx context.Context, input CheckoutInput) (*Result, error)
	// CreatePendingOrder is phase one of the asynchronous protocol: the
	// order is persisted awaiting payment and no stock is touched.
	CreatePendingOrder(ctx context.Context, input CheckoutInput) (*PendingResult, error)
	// FinalizePaidOrder is phase two, driven by the payment webhook. Calling
	// it again for an already paid or finalized order is a no-op returning
	// the existing record.
	FinalizePaidOrder(ctx context.Context, orderID uuid.UUID, info PaymentInfo) (*models.Order, error)
	// ApplyPaymentUpdate routes a gateway status onto the order state
	// machine: approved finalizes, rejected declines, anything else parks
	// the order as payment pending.
	ApplyPaymentUpdate(ctx context.Context, orderID uuid.UUID, info PaymentInfo) (*models.Order, error)
}

type service struct {
	cartSvc      cart.Service
	couponSvc    coupons.Service
	inventorySvc inventory.Service
	loyaltySvc   loyalty.Service
	orderRepo    *orders.Repository
	gateway      mercadopago.Gateway
	gatewayCfg   config.MercadoPagoConfig
	dbClient     *db.Client
	logg         *logger.Logger
	metrics      *metrics.CheckoutMetrics
}

// NewService constructs the checkout orchestrator. The payment gateway may
// be nil, which disables the asynchronous protocol.
func NewService(
	cartSvc cart.Service,
	couponSvc coupons.Service,
	inventorySvc inventory.Service,
	loyaltySvc loyalty.Service,
	orderRepo *orders.Repository,
	gateway mercadopago.Gateway,
	gatewayCfg config.MercadoPagoConfig,
	dbClient *db.Client,
	logg *logger.Logger,
	checkoutMetrics *metrics.CheckoutMetrics,
) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if inventorySvc == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if loyaltySvc == nil {
		return nil, fmt.Errorf("loyalty service required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		cartSvc:      cartSvc,
		couponSvc:    couponSvc,
		inventorySvc: inventorySvc,
		loyaltySvc:   loyaltySvc,
		orderRepo:    orderRepo,
		gateway:      gateway,
		gatewayCfg:   gatewayCfg,
		dbClient:     dbClient,
		logg:         logg,
		metrics:      checkoutMetrics,
	}, nil
}

// quotedCart is the priced view of a cart, shared by all protocols.
type quotedCart struct {
	items  []models.CartItem
	coupon *models.Coupon
	quote  pricing.Quote
}

func (s *service) quoteCart(ctx context.Context, cartID, couponCode string) (*quotedCart, error) {
	record, err := s.cartSvc.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty").
			WithDetails(map[string]any{"cart_id": cartID})
	}

	lines := make([]pricing.LineItem, 0, len(record.Items))
	for _, item := range record.Items {
		lines = append(lines, pricing.LineItem{UnitPrice: item.UnitPrice, Qty: item.Qty})
	}
	subtotal := pricing.Subtotal(lines)

	var coupon *models.Coupon
	discount := decimal.Zero
	if strings.TrimSpace(couponCode) != "" {
		coupon, err = s.couponSvc.Validate(ctx, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = s.couponSvc.DiscountFor(coupon, subtotal)
	}

	return &quotedCart{
		items:  record.Items,
		coupon: coupon,
		quote:  pricing.QuoteFor(lines, discount),
	}, nil
}

func (q *quotedCart) summary() *types.OrderSummary {
	summary := &types.OrderSummary{
		Subtotal:  q.quote.Subtotal,
		Discount:  q.quote.Discount,
		TotalBase: q.quote.TotalBase,
		Shipping:  q.quote.Shipping,
		Total:     q.quote.Total,
	}
	if q.coupon != nil {
		code := q.coupon.Code
		summary.CouponApplied = &code
	}
	return summary
}

func (q *quotedCart) demands() []inventory.Demand {
	demands := make([]inventory.Demand, 0, len(q.items))
	for _, item := range q.items {
		demands = append(demands, inventory.Demand{ProductID: item.ProductID, Qty: item.Qty})
	}
	return demands
}

func (q *quotedCart) orderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(q.items))
	for _, item := range q.items {
		items = append(items, models.OrderItem{
			ID:          uuid.New(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			Qty:         item.Qty,
			LineTotal:   pricing.Round2(item.UnitPrice.Mul(item.Qty)),
		})
	}
	return items
}

func (s *service) buildOrder(q *quotedCart, customer CustomerInfo, status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:        uuid.New(),
		Status:    status,
		Subtotal:  q.quote.Subtotal,
		Discount:  q.quote.Discount,
		TotalBase: q.quote.TotalBase,
		Shipping:  q.quote.Shipping,
		Total:     q.quote.Total,
		Items:     q.orderItems(),
	}
	if q.coupon != nil {
		code := q.coupon.Code
		order.CouponCode = &code
	}
	if taxID := loyalty.NormalizeTaxID(customer.TaxID); taxID != "" {
		order.CustomerTaxID = &taxID
	}
	if name := strings.TrimSpace(customer.Name); name != "" {
		order.CustomerName = &name
	}
	if email := strings.TrimSpace(customer.Email); email != "" {
		order.CustomerEmail = &email
	}
	if phone := strings.TrimSpace(customer.Phone); phone != "" {
		order.CustomerPhone = &phone
	}
	if notes := strings.TrimSpace(customer.Notes); notes != "" {
		order.DeliveryNotes = &notes
	}
	return order
}

func (s *service) Preview(ctx context.Context, cartID, couponCode string) (*types.OrderSummary, error) {
	quoted, err := s.quoteCart(ctx, cartID, couponCode)
	if err != nil {
		return nil, err
	}
	summary := quoted.summary()

	// loyalty state is shown read-only when the caller is known; previews
	// never credit
	return summary, nil
}

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*Result, error) {
	started := time.Now()
	ctx = s.logg.WithCartID(ctx, input.CartID)

	quoted, err := s.quoteCart(ctx, input.CartID, input.CouponCode)
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	order := s.buildOrder(quoted, input.Customer, enums.OrderStatusFinalized)
	var loyaltyState *types.LoyaltySnapshot

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.inventorySvc.DecrementIfSufficient(ctx, tx, quoted.demands()); err != nil {
			return err
		}
		if quoted.coupon != nil {
			if err := s.couponSvc.RegisterUse(ctx, tx, quoted.coupon.Code); err != nil {
				return err
			}
		}
		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}

		snapshot, err := s.loyaltySvc.Credit(ctx, tx, input.Customer.TaxID, input.Customer.Name, order.Total)
		if err != nil {
			return err
		}
		loyaltyState = snapshot
		if snapshot != nil && len(snapshot.NewCoupons) > 0 {
			order.RewardCode = &snapshot.NewCoupons[0]
			if err := tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Update("reward_code", order.RewardCode).Error; err != nil {
				return err
			}
		}

		return s.cartSvc.Clear(ctx, tx, input.CartID)
	})
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	summary := quoted.summary()
	summary.Loyalty = loyaltyState

	s.metrics.ObserveDuration("sync", time.Since(started))
	s.metrics.IncFinalized(order.Status.String())
	if loyaltyState != nil {
		for range loyaltyState.NewCoupons {
			s.metrics.IncRewardMinted()
		}
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order finalized")

	return &Result{Order: order, Summary: summary}, nil
}

func (s *service) CreatePendingOrder(ctx context.Context, input CheckoutInput) (*PendingResult, error) {
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment gateway is not configured")
	}

	started := time.Now()
	ctx = s.logg.WithCartID(ctx, input.CartID)

	quoted, err := s.quoteCart(ctx, input.CartID, input.CouponCode)
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	// no stock, coupon or loyalty mutation yet; those wait for the webhook
	order := s.buildOrder(quoted, input.Customer, enums.OrderStatusAwaitingPayment)
	order.Payment = &models.OrderPayment{Status: enums.PaymentStatusPending}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.cartSvc.Clear(ctx, tx, input.CartID)
	})
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	pref, err := s.gateway.CreatePreference(ctx, s.preferenceFor(order))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating payment preference")
	}

	order.Payment.PreferenceID = &pref.ID
	if err := s.orderRepo.SavePayment(ctx, order.Payment); err != nil {
		return nil, err
	}

	s.metrics.ObserveDuration("gateway", time.Since(started))

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "pending order created")

	return &PendingResult{
		Order:        order,
		Summary:      quoted.summary(),
		PreferenceID: pref.ID,
		InitPoint:    pref.InitPoint,
	}, nil
}

func (s *service) preferenceFor(order *models.Order) mercadopago.PreferenceRequest {
	items := make([]mercadopago.PreferenceItem, 0, len(order.Items)+1)
	for _, item := range order.Items {
		// the gateway wants integer quantities, so weight lines collapse to a
		// single line priced at the line total
		items = append(items, mercadopago.PreferenceItem{
			Title:     item.ProductName,
			Quantity:  1,
			UnitPrice: item.LineTotal,
		})
	}
	adjustment := order.Shipping.Sub(order.Discount)
	if !adjustment.IsZero() {
		items = append(items, mercadopago.PreferenceItem{
			Title:     "Frete e descontos",
			Quantity:  1,
			UnitPrice: adjustment,
		})
	}

	frontend := strings.TrimRight(s.gatewayCfg.FrontendURL, "/")
	return mercadopago.PreferenceRequest{
		Items:             items,
		ExternalReference: order.ID.String(),
		BackURLs: mercadopago.BackURLs{
			Success: frontend + "/pedido/sucesso",
			Pending: frontend + "/pedido/pendente",
			Failure: frontend + "/pedido/erro",
		},
		AutoReturn:      "approved",
		NotificationURL: s.gatewayCfg.WebhookURL,
	}
}

func (s *service) FinalizePaidOrder(ctx context.Context, orderID uuid.UUID, info PaymentInfo) (*models.Order, error) {
	var finalized *models.Order
	var newRewards []string
	var alreadyPaid bool

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)

		order, err := repo.LockByID(ctx, orderID)
		if err != nil {
			return err
		}

		// idempotent terminal: a repeat webhook or a race with a manual edit
		// must not touch stock or loyalty again
		if order.Status.IsPaidTerminal() {
			finalized = order
			alreadyPaid = true
			return nil
		}

		demands := make([]inventory.Demand, 0, len(order.Items))
		for _, item := range order.Items {
			demands = append(demands, inventory.Demand{ProductID: item.ProductID, Qty: item.Qty})
		}
		if err := s.inventorySvc.DecrementIfSufficient(ctx, tx, demands); err != nil {
			return err
		}

		if order.CouponCode != nil {
			if err := s.couponSvc.RegisterUse(ctx, tx, *order.CouponCode); err != nil {
				return err
			}
		}

		taxID := ""
		if order.CustomerTaxID != nil {
			taxID = *order.CustomerTaxID
		}
		name := ""
		if order.CustomerName != nil {
			name = *order.CustomerName
		}
		snapshot, err := s.loyaltySvc.Credit(ctx, tx, taxID, name, order.Total)
		if err != nil {
			return err
		}
		if snapshot != nil && len(snapshot.NewCoupons) > 0 {
			order.RewardCode = &snapshot.NewCoupons[0]
			newRewards = snapshot.NewCoupons
		}

		order.Status = enums.OrderStatusPaid
		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{"status": order.Status, "reward_code": order.RewardCode}).Error; err != nil {
			return err
		}

		if err := s.stampPayment(ctx, tx, order, info); err != nil {
			return err
		}

		finalized = order
		return nil
	})
	if err != nil {
		s.countFailure(err)
		return nil, err
	}

	if alreadyPaid {
		return finalized, nil
	}

	s.metrics.IncFinalized(finalized.Status.String())
	for range newRewards {
		s.metrics.IncRewardMinted()
	}

	ctx = s.logg.WithOrderID(ctx, finalized.ID.String())
	s.logg.Info(ctx, "order marked paid")

	return finalized, nil
}

func (s *service) ApplyPaymentUpdate(ctx context.Context, orderID uuid.UUID, info PaymentInfo) (*models.Order, error) {
	s.metrics.IncPaymentUpdate(info.Status.String())

	if info.Status == enums.PaymentStatusApproved {
		return s.FinalizePaidOrder(ctx, orderID, info)
	}

	var updated *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orderRepo.WithTx(tx)

		order, err := repo.LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status.IsPaidTerminal() {
			updated = order
			return nil
		}

		order.Status = info.Status.OrderStatusFor()
		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Update("status", order.Status).Error; err != nil {
			return err
		}
		if err := s.stampPayment(ctx, tx, order, info); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		s.countFailure(err)
		return nil, err
	}
	return updated, nil
}

func (s *service) stampPayment(ctx context.Context, tx *gorm.DB, order *models.Order, info PaymentInfo) error {
	payment := order.Payment
	if payment == nil {
		payment = &models.OrderPayment{OrderID: order.ID}
		order.Payment = payment
	}
	payment.Status = info.Status
	if id := strings.TrimSpace(info.GatewayPaymentID); id != "" {
		payment.GatewayPaymentID = &id
	}
	if method := strings.TrimSpace(info.Method); method != "" {
		payment.Method = &method
	}
	return s.orderRepo.WithTx(tx).SavePayment(ctx, payment)
}

func (s *service) countFailure(err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		s.metrics.IncFailed("internal")
		return
	}
	s.metrics.IncFailed(strings.ToLower(string(typed.Code())))
}
