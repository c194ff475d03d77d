package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
	"github.com/GurugubelliAjay/E-Commerce/internal/payment"
)

const testProviderSecret = "rzp_test_secret"

// fakeProvider stores created orders in memory and serves them back on
// fetch, like the gateway does between session creation and callback.
type fakeProvider struct {
	mu     sync.Mutex
	orders map[string]*payment.ProviderOrder
	n      int

	failCreate bool
	failFetch  bool
	createErr  error
	fetchErr   error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{orders: map[string]*payment.ProviderOrder{}}
}

func (p *fakeProvider) CreateOrder(_ context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (*payment.ProviderOrder, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	if p.failCreate {
		return nil, errors.New("gateway down")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	o := &payment.ProviderOrder{
		ID:       fmt.Sprintf("order_fake%d", p.n),
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
		Notes:    notes,
	}
	p.orders[o.ID] = o
	return o, nil
}

func (p *fakeProvider) FetchOrder(_ context.Context, orderID string) (*payment.ProviderOrder, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	if p.failFetch {
		return nil, errors.New("gateway down")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.orders[orderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	cp := *o
	return &cp, nil
}

// fakeOrderStore enforces the provider-id uniqueness the way postgres
// does: atomically, returning the winning row to the losing inserter.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders []*model.Order
	nextID uint
}

func (s *fakeOrderStore) FindByProviderIDs(_ context.Context, paymentID, orderID string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(paymentID, orderID), nil
}

func (s *fakeOrderStore) findLocked(paymentID, orderID string) *model.Order {
	for _, o := range s.orders {
		if o.RazorpayPaymentID == paymentID || o.RazorpayOrderID == orderID {
			cp := *o
			return &cp
		}
	}
	return nil
}

func (s *fakeOrderStore) Insert(_ context.Context, o *model.Order) (*model.Order, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.findLocked(o.RazorpayPaymentID, o.RazorpayOrderID); existing != nil {
		return existing, false, nil
	}
	s.nextID++
	o.ID = s.nextID
	cp := *o
	s.orders = append(s.orders, &cp)
	return o, true, nil
}

func (s *fakeOrderStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

type fakeUsers struct{}

func (fakeUsers) ByID(_ context.Context, id uint) (*model.User, error) {
	return &model.User{ID: id, Email: fmt.Sprintf("user%d@example.com", id)}, nil
}

type checkoutFixture struct {
	svc      *CheckoutService
	provider *fakeProvider
	orders   *fakeOrderStore
	coupons  *fakeCouponStore
}

func newCheckoutFixture() *checkoutFixture {
	provider := newFakeProvider()
	orders := &fakeOrderStore{}
	coupons := newFakeCouponStore()
	svc := NewCheckoutService(provider, testProviderSecret, orders, NewCouponService(coupons), fakeUsers{}, nil)
	return &checkoutFixture{svc: svc, provider: provider, orders: orders, coupons: coupons}
}

func cartTwoAtHundred() []CheckoutItem {
	return []CheckoutItem{{ProductID: 1, Name: "Blue T-Shirt", PricePaise: 10000, Quantity: 2}}
}

func TestCreateCheckoutSessionAmount(t *testing.T) {
	f := newCheckoutFixture()

	sess, err := f.svc.CreateCheckoutSession(context.Background(), 1, cartTwoAtHundred(), "")
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if sess.AmountPaise != 20000 || sess.Amount != 200 {
		t.Errorf("amount = %d paise / %v rupees, want 20000 / 200", sess.AmountPaise, sess.Amount)
	}
	if sess.OrderID == "" {
		t.Error("missing provider order id")
	}

	po := f.provider.orders[sess.OrderID]
	if po.Notes["userId"] != "1" {
		t.Errorf("notes userId = %q", po.Notes["userId"])
	}
	if po.Notes["couponCode"] != "" {
		t.Errorf("notes couponCode = %q, want empty", po.Notes["couponCode"])
	}

	// 20000 paise hits the reward threshold exactly: one active coupon.
	c, _ := NewCouponService(f.coupons).ActiveForUser(context.Background(), 1)
	if c == nil {
		t.Error("reward coupon not issued at threshold")
	}
}

func TestCreateCheckoutSessionWithCoupon(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	_ = f.coupons.Create(ctx, &model.Coupon{Code: "SAVE10", DiscountPercentage: 10, IsActive: true})

	sess, err := f.svc.CreateCheckoutSession(ctx, 1, cartTwoAtHundred(), "SAVE10")
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if sess.AmountPaise != 18000 || sess.Amount != 180 {
		t.Errorf("amount = %d paise / %v rupees, want 18000 / 180", sess.AmountPaise, sess.Amount)
	}
	if got := f.provider.orders[sess.OrderID].Notes["couponCode"]; got != "SAVE10" {
		t.Errorf("notes couponCode = %q", got)
	}

	// 18000 < threshold: no reward coupon for the user.
	c, _ := NewCouponService(f.coupons).ActiveForUser(ctx, 1)
	if c != nil {
		t.Errorf("unexpected reward coupon %+v below threshold", c)
	}
}

func TestCreateCheckoutSessionRejectsBadCart(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	cases := [][]CheckoutItem{
		nil,
		{},
		{{ProductID: 1, PricePaise: 0, Quantity: 1}},
		{{ProductID: 1, PricePaise: 100, Quantity: 0}},
		{{ProductID: 1, PricePaise: -100, Quantity: 2}},
	}
	for i, items := range cases {
		if _, err := f.svc.CreateCheckoutSession(ctx, 1, items, ""); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("case %d: err = %v, want ErrInvalidRequest", i, err)
		}
	}
	if f.provider.n != 0 {
		t.Errorf("provider orders created for invalid carts: %d", f.provider.n)
	}
}

func TestCreateCheckoutSessionFractionalRupees(t *testing.T) {
	f := newCheckoutFixture()

	// 18050 paise is 180.50 rupees, which integer division would flatten
	// to 180.
	items := []CheckoutItem{{ProductID: 2, Name: "Socks", PricePaise: 9025, Quantity: 2}}
	sess, err := f.svc.CreateCheckoutSession(context.Background(), 1, items, "")
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if sess.AmountPaise != 18050 || sess.Amount != 180.5 {
		t.Errorf("amount = %d paise / %v rupees, want 18050 / 180.5", sess.AmountPaise, sess.Amount)
	}
}

func TestCreateCheckoutSessionProviderRejects(t *testing.T) {
	f := newCheckoutFixture()
	f.provider.createErr = &payment.StatusError{
		Method: "POST", Path: "/v1/orders", Status: 400, Body: `{"error":"amount too small"}`,
	}

	_, err := f.svc.CreateCheckoutSession(context.Background(), 1, cartTwoAtHundred(), "")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
	if errors.Is(err, ErrProviderUnavailable) {
		t.Error("a 4xx rejection must not look retryable")
	}
}

func TestCreateCheckoutSessionProviderDown(t *testing.T) {
	f := newCheckoutFixture()
	f.provider.failCreate = true

	_, err := f.svc.CreateCheckoutSession(context.Background(), 1, cartTwoAtHundred(), "")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("err = %v, want ErrProviderUnavailable", err)
	}
}

func confirmArgs(sess *CheckoutSession) (paymentID, orderID, sig string) {
	paymentID = "pay_" + sess.OrderID
	return paymentID, sess.OrderID, payment.Sign(sess.OrderID, paymentID, testProviderSecret)
}

func TestConfirmCheckoutHappyPath(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	sess, err := f.svc.CreateCheckoutSession(ctx, 1, cartTwoAtHundred(), "")
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	paymentID, orderID, sig := confirmArgs(sess)

	o, err := f.svc.ConfirmCheckout(ctx, paymentID, orderID, sig, 1)
	if err != nil {
		t.Fatalf("ConfirmCheckout: %v", err)
	}
	if o.TotalPaise != 20000 || o.PaymentStatus != model.PaymentCompleted {
		t.Errorf("order = total %d status %q", o.TotalPaise, o.PaymentStatus)
	}
	if o.UserID != 1 {
		t.Errorf("order user = %d", o.UserID)
	}
	if len(o.Items) != 1 || o.Items[0].Qty != 2 || o.Items[0].PricePaise != 10000 {
		t.Errorf("order items = %+v", o.Items)
	}
	if f.orders.count() != 1 {
		t.Errorf("order rows = %d, want 1", f.orders.count())
	}
}

func TestConfirmCheckoutIdempotent(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	sess, _ := f.svc.CreateCheckoutSession(ctx, 1, cartTwoAtHundred(), "")
	paymentID, orderID, sig := confirmArgs(sess)

	first, err := f.svc.ConfirmCheckout(ctx, paymentID, orderID, sig, 1)
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	second, err := f.svc.ConfirmCheckout(ctx, paymentID, orderID, sig, 1)
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("order ids differ: %d vs %d", first.ID, second.ID)
	}
	if f.orders.count() != 1 {
		t.Errorf("order rows = %d, want 1", f.orders.count())
	}
}

func TestConfirmCheckoutRejectsTampering(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	sess, _ := f.svc.CreateCheckoutSession(ctx, 1, cartTwoAtHundred(), "")
	paymentID, orderID, sig := confirmArgs(sess)

	cases := []struct {
		name      string
		payID     string
		ordID     string
		signature string
	}{
		{"altered payment id", paymentID + "x", orderID, sig},
		{"altered order id", paymentID, orderID + "x", sig},
		{"altered signature", paymentID, orderID, sig[:len(sig)-2] + "zz"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.svc.ConfirmCheckout(ctx, tt.payID, tt.ordID, tt.signature, 1); !errors.Is(err, ErrSignatureInvalid) {
				t.Errorf("err = %v, want ErrSignatureInvalid", err)
			}
		})
	}
	if f.orders.count() != 0 {
		t.Errorf("order rows after rejected confirms = %d, want 0", f.orders.count())
	}
}

func TestConfirmCheckoutMissingFields(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	for _, args := range [][3]string{
		{"", "order_1", "sig"},
		{"pay_1", "", "sig"},
		{"pay_1", "order_1", ""},
	} {
		if _, err := f.svc.ConfirmCheckout(ctx, args[0], args[1], args[2], 1); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("args %v: err = %v, want ErrInvalidRequest", args, err)
		}
	}
}

func TestConfirmCheckoutMetadataMissing(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	// Provider order exists but carries no notes.
	f.provider.orders["order_bare"] = &payment.ProviderOrder{ID: "order_bare", Amount: 500, Status: "paid"}
	sig := payment.Sign("order_bare", "pay_bare", testProviderSecret)

	if _, err := f.svc.ConfirmCheckout(ctx, "pay_bare", "order_bare", sig, 1); !errors.Is(err, ErrOrderMetadataMissing) {
		t.Errorf("err = %v, want ErrOrderMetadataMissing", err)
	}
}

func TestConfirmCheckoutMalformedMetadata(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	f.provider.orders["order_bad"] = &payment.ProviderOrder{
		ID:     "order_bad",
		Amount: 500,
		Notes:  map[string]string{"userId": "1", "products": "{not json"},
	}
	sig := payment.Sign("order_bad", "pay_bad", testProviderSecret)

	if _, err := f.svc.ConfirmCheckout(ctx, "pay_bad", "order_bad", sig, 1); !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("err = %v, want ErrInvalidMetadata", err)
	}
	if f.orders.count() != 0 {
		t.Errorf("order rows = %d, want 0", f.orders.count())
	}
}

func TestConfirmCheckoutOrderUnknownToProvider(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	// Signature checks out but the provider answers 404: a permanent
	// state, not a gateway outage, so no retryable error.
	f.provider.fetchErr = &payment.StatusError{
		Method: "GET", Path: "/v1/orders/order_ghost", Status: 404, Body: `{"error":"not found"}`,
	}
	sig := payment.Sign("order_ghost", "pay_ghost", testProviderSecret)

	_, err := f.svc.ConfirmCheckout(ctx, "pay_ghost", "order_ghost", sig, 1)
	if !errors.Is(err, ErrOrderMetadataMissing) {
		t.Errorf("err = %v, want ErrOrderMetadataMissing", err)
	}
	if errors.Is(err, ErrProviderUnavailable) {
		t.Error("a 404 must not look retryable")
	}
	if f.orders.count() != 0 {
		t.Errorf("order rows = %d, want 0", f.orders.count())
	}
}

func TestConfirmCheckoutProviderDown(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	sess, _ := f.svc.CreateCheckoutSession(ctx, 1, cartTwoAtHundred(), "")
	paymentID, orderID, sig := confirmArgs(sess)
	f.provider.failFetch = true

	if _, err := f.svc.ConfirmCheckout(ctx, paymentID, orderID, sig, 1); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("err = %v, want ErrProviderUnavailable", err)
	}

	// The call is idempotent, so a retry after recovery succeeds.
	f.provider.failFetch = false
	if _, err := f.svc.ConfirmCheckout(ctx, paymentID, orderID, sig, 1); err != nil {
		t.Errorf("retry after recovery: %v", err)
	}
}

func TestConfirmCheckoutDeactivatesCoupon(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	_ = f.coupons.Create(ctx, &model.Coupon{Code: "SAVE10", DiscountPercentage: 10, IsActive: true})
	sess, _ := f.svc.CreateCheckoutSession(ctx, 1, cartTwoAtHundred(), "SAVE10")
	paymentID, orderID, sig := confirmArgs(sess)

	if _, err := f.svc.ConfirmCheckout(ctx, paymentID, orderID, sig, 1); err != nil {
		t.Fatalf("ConfirmCheckout: %v", err)
	}

	c, _ := f.coupons.ByCode(ctx, "SAVE10")
	if c == nil || c.IsActive {
		t.Error("redeemed coupon should be deactivated, not deleted")
	}
}

func TestConfirmCheckoutConcurrent(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	sess, _ := f.svc.CreateCheckoutSession(ctx, 1, cartTwoAtHundred(), "")
	paymentID, orderID, sig := confirmArgs(sess)

	const n = 8
	results := make([]*model.Order, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.ConfirmCheckout(ctx, paymentID, orderID, sig, 1)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("confirm %d: %v", i, errs[i])
		}
		if results[i].ID != results[0].ID || results[i].TotalPaise != results[0].TotalPaise {
			t.Errorf("confirm %d returned different order: %+v", i, results[i])
		}
	}
	if f.orders.count() != 1 {
		t.Errorf("order rows = %d, want exactly 1", f.orders.count())
	}
}
