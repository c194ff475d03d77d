package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
	"github.com/GurugubelliAjay/E-Commerce/internal/payment"
)

// RewardThresholdPaise is the session total at which a GIFT coupon is
// issued for the next purchase.
const RewardThresholdPaise = 20000

// OrderStore is the durable record of completed purchases. Insert reports
// whether this call created the row; the unique provider-id constraints
// behind it are the only mutual exclusion in the confirm path.
type OrderStore interface {
	FindByProviderIDs(ctx context.Context, paymentID, orderID string) (*model.Order, error)
	Insert(ctx context.Context, o *model.Order) (*model.Order, bool, error)
}

// UserLookup resolves a user for the best-effort confirmation mail.
type UserLookup interface {
	ByID(ctx context.Context, id uint) (*model.User, error)
}

// CheckoutService drives a checkout attempt from session creation through
// the verified callback to exactly one persisted Order.
type CheckoutService struct {
	provider       payment.Provider
	providerSecret string
	orders         OrderStore
	coupons        *CouponService
	users          UserLookup
	email          EmailService
}

func NewCheckoutService(provider payment.Provider, providerSecret string, orders OrderStore, coupons *CouponService, users UserLookup, email EmailService) *CheckoutService {
	return &CheckoutService{
		provider:       provider,
		providerSecret: providerSecret,
		orders:         orders,
		coupons:        coupons,
		users:          users,
		email:          email,
	}
}

// providerRejected reports whether the provider answered with a 4xx,
// which no amount of retrying will change.
func providerRejected(err error) bool {
	var se *payment.StatusError
	return errors.As(err, &se) && se.Status >= 400 && se.Status < 500
}

// CheckoutSession is what the client needs to open the provider's payment
// UI: the provider order id and the human-facing amount.
type CheckoutSession struct {
	OrderID     string  `json:"id"`
	AmountPaise int64   `json:"amountPaise"`
	Amount      float64 `json:"amount"` // rupees
	Currency    string  `json:"currency"`
}

// CreateCheckoutSession totals the cart in paise, applies an applicable
// coupon, and creates the provider order carrying the pending checkout as
// notes metadata. Totals at or above the reward threshold also issue a
// GIFT coupon for the user's next purchase.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, userID uint, items []CheckoutItem, couponCode string) (*CheckoutSession, error) {
	if len(items) == 0 {
		return nil, ErrInvalidRequest
	}
	var totalPaise int64
	for _, it := range items {
		if it.PricePaise <= 0 || it.Quantity <= 0 {
			return nil, ErrInvalidRequest
		}
		totalPaise += it.PricePaise * int64(it.Quantity)
	}

	appliedCode := ""
	if couponCode != "" {
		c, err := s.coupons.FindActiveForUser(ctx, userID, couponCode)
		if err != nil {
			return nil, err
		}
		if c != nil {
			totalPaise = ApplyDiscount(totalPaise, c)
			appliedCode = c.Code
		}
	}

	notes, err := PendingCheckout{UserID: userID, CouponCode: appliedCode, Items: items}.Encode()
	if err != nil {
		return nil, err
	}
	receipt := "rcpt_" + uuid.NewString()
	po, err := s.provider.CreateOrder(ctx, totalPaise, "INR", receipt, notes)
	if err != nil {
		if providerRejected(err) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if totalPaise >= RewardThresholdPaise {
		if _, err := s.coupons.IssueRewardCoupon(ctx, userID); err != nil {
			// Side effect only; the session itself succeeded.
			log.Printf("reward coupon for user %d failed: %v", userID, err)
		}
	}

	return &CheckoutSession{
		OrderID:     po.ID,
		AmountPaise: totalPaise,
		Amount:      float64(totalPaise) / 100.0,
		Currency:    "INR",
	}, nil
}

// ConfirmCheckout turns a verified payment callback into exactly one Order.
// The sequence is: validate fields, verify the signature, replay-check the
// order store, fetch the authoritative provider order, persist. A losing
// racer on the unique constraints gets the winning row back as success.
func (s *CheckoutService) ConfirmCheckout(ctx context.Context, paymentID, orderID, signature string, fallbackUserID uint) (*model.Order, error) {
	if paymentID == "" || orderID == "" || signature == "" {
		return nil, ErrInvalidRequest
	}
	if !payment.VerifySignature(orderID, paymentID, signature, s.providerSecret) {
		// Logged as a security event: a mismatch here is a tampered or
		// forged callback, not a user mistake.
		log.Printf("SECURITY: invalid payment signature for order %s payment %s", orderID, paymentID)
		return nil, ErrSignatureInvalid
	}

	if existing, err := s.orders.FindByProviderIDs(ctx, paymentID, orderID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	po, err := s.provider.FetchOrder(ctx, orderID)
	if err != nil {
		if providerRejected(err) {
			// The provider has no such order; this callback can never
			// complete, so do not tell anyone to retry it.
			return nil, fmt.Errorf("%w: %v", ErrOrderMetadataMissing, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if po == nil || len(po.Notes) == 0 {
		return nil, ErrOrderMetadataMissing
	}
	pending, err := DecodePendingCheckout(po.Notes, fallbackUserID)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		UserID:            pending.UserID,
		TotalPaise:        po.Amount,
		RazorpayPaymentID: paymentID,
		RazorpayOrderID:   orderID,
		PaymentStatus:     model.PaymentCompleted,
	}
	for _, it := range pending.Items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		order.Items = append(order.Items, model.OrderItem{
			ProductID:  it.ProductID,
			Name:       it.Name,
			PricePaise: it.PricePaise,
			Qty:        qty,
		})
	}

	persisted, inserted, err := s.orders.Insert(ctx, order)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Concurrent duplicate delivery; the other confirm won the race.
		return persisted, nil
	}

	// Everything past the insert is best-effort and must not undo the
	// completed order.
	if pending.CouponCode != "" {
		if err := s.coupons.Deactivate(ctx, pending.CouponCode); err != nil {
			log.Printf("deactivating coupon %s failed: %v", pending.CouponCode, err)
		}
	}
	s.sendConfirmation(ctx, persisted)

	return persisted, nil
}

func (s *CheckoutService) sendConfirmation(ctx context.Context, o *model.Order) {
	if s.email == nil || s.users == nil {
		return
	}
	u, err := s.users.ByID(ctx, o.UserID)
	if err != nil || u == nil {
		return
	}
	body := fmt.Sprintf("Thanks! Your order #%d total %.2f received.", o.ID, float64(o.TotalPaise)/100.0)
	if err := s.email.Send(u.Email, "Order confirmation", body); err != nil {
		log.Printf("order confirmation mail to %s failed: %v", u.Email, err)
	}
}
