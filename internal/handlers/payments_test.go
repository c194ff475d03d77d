package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/GurugubelliAjay/E-Commerce/internal/model"
	"github.com/GurugubelliAjay/E-Commerce/internal/payment"
	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

// recordingProvider captures the amount the checkout flow hands to the
// gateway so tests can assert on the exact paise value.
type recordingProvider struct {
	amountPaise int64
}

func (p *recordingProvider) CreateOrder(_ context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (*payment.ProviderOrder, error) {
	p.amountPaise = amountPaise
	return &payment.ProviderOrder{
		ID:       "order_h1",
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
		Notes:    notes,
	}, nil
}

func (p *recordingProvider) FetchOrder(context.Context, string) (*payment.ProviderOrder, error) {
	return nil, errors.New("not used")
}

type stubOrders struct{}

func (stubOrders) FindByProviderIDs(context.Context, string, string) (*model.Order, error) {
	return nil, nil
}

func (stubOrders) Insert(_ context.Context, o *model.Order) (*model.Order, bool, error) {
	return o, true, nil
}

type stubCoupons struct{}

func (stubCoupons) ByCode(context.Context, string) (*model.Coupon, error) { return nil, nil }

func (stubCoupons) ActiveForUser(context.Context, uint) (*model.Coupon, error) { return nil, nil }

func (stubCoupons) Create(context.Context, *model.Coupon) error { return nil }

func (stubCoupons) DeleteByUser(context.Context, uint) error { return nil }

func (stubCoupons) Deactivate(context.Context, string) error { return nil }

func newPaymentsRouter(provider payment.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewCheckoutService(provider, "test_secret", stubOrders{}, service.NewCouponService(stubCoupons{}), nil, nil)
	h := &Payments{Svc: svc, ClientURL: "http://localhost:5173"}

	r := gin.New()
	r.POST("/api/payments/create-checkout-session",
		func(c *gin.Context) { c.Set(ctxUserID, uint(1)) },
		h.CreateCheckoutSession)
	return r
}

// Rupee prices arrive as floats; conversion to paise must round, not
// truncate, or the provider amount drifts a paisa below the real total.
func TestCreateCheckoutSessionRoundsRupeesToPaise(t *testing.T) {
	cases := []struct {
		name      string
		price     float64
		quantity  int
		wantPaise int64
	}{
		{"two at 19.99", 19.99, 2, 3998},
		{"one at 10.01", 10.01, 1, 1001},
		{"whole rupees", 250, 1, 25000},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			provider := &recordingProvider{}
			r := newPaymentsRouter(provider)

			body := fmt.Sprintf(`{"products":[{"id":1,"name":"Mug","price":%v,"quantity":%d}]}`, tt.price, tt.quantity)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/payments/create-checkout-session", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if provider.amountPaise != tt.wantPaise {
				t.Errorf("provider order amount = %d paise, want %d", provider.amountPaise, tt.wantPaise)
			}

			var resp struct {
				Amount      float64 `json:"amount"`
				AmountPaise int64   `json:"amountPaise"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.AmountPaise != tt.wantPaise {
				t.Errorf("response amountPaise = %d, want %d", resp.AmountPaise, tt.wantPaise)
			}
			if want := float64(tt.wantPaise) / 100.0; resp.Amount != want {
				t.Errorf("response amount = %v rupees, want %v", resp.Amount, want)
			}
		})
	}
}
