package app

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GurugubelliAjay/E-Commerce/internal/handlers"
	"github.com/GurugubelliAjay/E-Commerce/internal/kvstore"
	"github.com/GurugubelliAjay/E-Commerce/internal/model"
	"github.com/GurugubelliAjay/E-Commerce/internal/payment"
	"github.com/GurugubelliAjay/E-Commerce/internal/repo"
	"github.com/GurugubelliAjay/E-Commerce/internal/service"
)

func NewServer(cfg Config) (*gin.Engine, func(), error) {
	// TranslateError lets the order store see unique violations as
	// gorm.ErrDuplicatedKey instead of driver-specific codes.
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Coupon{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return nil, nil, err
	}

	var kv kvstore.Store
	var redisStore *kvstore.RedisStore
	if cfg.RedisAddr != "" {
		redisStore, err = kvstore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		kv = redisStore
	} else {
		// No redis configured: sessions and the featured cache live in
		// process memory. Fine for dev, not for more than one replica.
		log.Println("REDIS_ADDR not set, using in-memory key-value store")
		kv = kvstore.NewMemoryStore()
	}

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Repos and services.
	users := repo.NewUserRepo(db)
	products := repo.NewProductRepo(db)
	coupons := repo.NewCouponRepo(db)
	carts := repo.NewCartRepo(db)
	orders := repo.NewOrderRepo(db)

	tokenSvc := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, kv)
	authSvc := service.NewAuthService(users, tokenSvc)
	catalogSvc := service.NewCatalogService(products, kv)
	couponSvc := service.NewCouponService(coupons)
	cartSvc := service.NewCartService(carts)
	emailSvc := service.NewEmailService(cfg.SMTPAddr, cfg.SMTPFrom)
	provider := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	checkoutSvc := service.NewCheckoutService(provider, cfg.RazorpayKeySecret, orders, couponSvc, users, emailSvc)

	// Handlers.
	authH := &handlers.Auth{Svc: authSvc, Tokens: tokenSvc, Secure: cfg.Env == "prod"}
	productsH := &handlers.Products{Svc: catalogSvc}
	cartH := &handlers.Cart{Svc: cartSvc}
	couponsH := &handlers.Coupons{Svc: couponSvc}
	paymentsH := &handlers.Payments{Svc: checkoutSvc, ClientURL: cfg.ClientURL}

	authMW := handlers.AuthRequired(tokenSvc)
	adminMW := handlers.AdminRequired(authSvc)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", authH.Signup)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.POST("/refresh-token", authH.Refresh)
	auth.GET("/profile", authMW, authH.Profile)

	prods := api.Group("/products")
	prods.GET("", authMW, adminMW, productsH.All)
	prods.GET("/featured", productsH.Featured)
	prods.GET("/recommendations", productsH.Recommended)
	prods.GET("/category/:category", productsH.ByCategory)
	prods.POST("", authMW, adminMW, productsH.Create)
	prods.DELETE("/:id", authMW, adminMW, productsH.Delete)
	prods.PATCH("/:id", authMW, adminMW, productsH.ToggleFeatured)

	cart := api.Group("/cart", authMW)
	cart.POST("/add", cartH.Add)
	cart.GET("", cartH.Get)
	cart.DELETE("", cartH.Clear)

	coups := api.Group("/coupons", authMW)
	coups.GET("", couponsH.Mine)
	coups.POST("/validate", couponsH.Validate)

	pay := api.Group("/payments", authMW)
	pay.POST("/create-checkout-session", paymentsH.CreateCheckoutSession)
	pay.POST("/checkout-success", paymentsH.CheckoutSuccess)

	cleanup := func() {
		if s, err := db.DB(); err == nil {
			_ = s.Close()
		}
		if redisStore != nil {
			_ = redisStore.Close()
		}
	}
	return r, cleanup, nil
}
