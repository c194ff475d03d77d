package model

import "time"

// All monetary amounts are integer paise (minor units). Client-facing
// responses convert to rupees at the handler boundary.

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PricePaise  int64     `json:"pricePaise"`
	ImageURL    string    `json:"image"`
	Category    string    `gorm:"index" json:"category"`
	IsFeatured  bool      `gorm:"index" json:"isFeatured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Role         string    `gorm:"default:customer" json:"role"` // customer | admin
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"userId"`
	ProductID uint      `json:"productId"`
	Qty       int       `json:"qty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Product   Product   `json:"product"`
}

type Coupon struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Code               string    `gorm:"uniqueIndex;not null" json:"code"`
	DiscountPercentage int       `json:"discountPercentage"`
	ExpirationDate     time.Time `json:"expirationDate"`
	UserID             *uint     `gorm:"index" json:"userId,omitempty"` // nil means usable by anyone
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Order is created exactly once per provider payment: the unique indexes
// on the two provider ids are what makes confirmation idempotent under
// retried or duplicated callbacks.
type Order struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	UserID            uint        `gorm:"index" json:"userId"`
	TotalPaise        int64       `json:"totalPaise"`
	RazorpayPaymentID string      `gorm:"uniqueIndex;not null" json:"razorpayPaymentId"`
	RazorpayOrderID   string      `gorm:"uniqueIndex;not null" json:"razorpayOrderId"`
	PaymentStatus     string      `gorm:"default:pending" json:"paymentStatus"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	Items             []OrderItem `json:"items"`
}

type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"index" json:"orderId"`
	ProductID  uint      `json:"productId"`
	Name       string    `json:"name"`
	PricePaise int64     `json:"pricePaise"`
	Qty        int       `json:"qty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
