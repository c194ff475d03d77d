package service

import (
	"encoding/json"
	"strconv"
)

// CheckoutItem is one cart line as submitted at session creation.
type CheckoutItem struct {
	ProductID  uint   `json:"productId"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	PricePaise int64  `json:"price"`
	Quantity   int    `json:"quantity"`
}

// PendingCheckout is the ephemeral checkout state parked in the provider
// order's notes between session creation and the confirmation callback.
// The provider is its only store until an Order row exists, so Encode keeps
// the payload inside the provider's notes-value limit.
type PendingCheckout struct {
	UserID     uint
	CouponCode string
	Items      []CheckoutItem
}

// maxPendingItemsBytes caps the serialized cart; provider notes values are
// size-limited and carts beyond this belong in a dedicated store anyway.
const maxPendingItemsBytes = 8 * 1024

func (p PendingCheckout) Encode() (map[string]string, error) {
	items, err := json.Marshal(p.Items)
	if err != nil {
		return nil, err
	}
	if len(items) > maxPendingItemsBytes {
		return nil, ErrInvalidRequest
	}
	return map[string]string{
		"userId":     strconv.FormatUint(uint64(p.UserID), 10),
		"couponCode": p.CouponCode,
		"products":   string(items),
	}, nil
}

// DecodePendingCheckout reads the notes back. A missing or unparsable user
// id falls back to the confirming caller's id, matching the callback's
// fallbackUserId contract; malformed items are ErrInvalidMetadata.
func DecodePendingCheckout(notes map[string]string, fallbackUserID uint) (PendingCheckout, error) {
	p := PendingCheckout{
		UserID:     fallbackUserID,
		CouponCode: notes["couponCode"],
	}
	if raw := notes["userId"]; raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			p.UserID = uint(id)
		}
	}
	raw := notes["products"]
	if raw == "" {
		raw = "[]"
	}
	if err := json.Unmarshal([]byte(raw), &p.Items); err != nil {
		return PendingCheckout{}, ErrInvalidMetadata
	}
	return p, nil
}
