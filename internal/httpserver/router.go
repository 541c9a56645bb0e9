package httpserver

import (
	"context"
	"log"
	"net/http"

	"marketplace/internal/domain"
	orderrepo "marketplace/internal/repository/order"
	productrepo "marketplace/internal/repository/product"
	authsvc "marketplace/internal/service/auth"
	cartsvc "marketplace/internal/service/cart"
	checkoutsvc "marketplace/internal/service/checkout"
	productsvc "marketplace/internal/service/product"
	storesvc "marketplace/internal/service/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps collects the services the router dispatches to. Interfaces are
// declared here so handler tests can plug stubs.
type Deps struct {
	AuthSvc     authService
	CartSvc     cartService
	CheckoutSvc checkoutService
	OrderSvc    orderService
	ProductSvc  productService
	StoreSvc    storeService
	Metrics     http.Handler
}

type authService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.Shopper, error)
	Login(ctx context.Context, email, password string) (*domain.Shopper, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.Shopper, error)
	AccessTTLSeconds() int
}

type cartService interface {
	GetOrCreate(ctx context.Context, shopperID string) (*domain.Cart, error)
	AddItem(ctx context.Context, shopperID string, in cartsvc.AddItemInput) (*domain.Cart, error)
	SetQuantity(ctx context.Context, shopperID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, shopperID, productID string) (*domain.Cart, error)
	Clear(ctx context.Context, shopperID string) (*domain.Cart, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, shopperID string, in checkoutsvc.CheckoutInput) (*domain.Order, error)
	Cancel(ctx context.Context, principal domain.Principal, orderID string) (*domain.Order, error)
}

type orderService interface {
	ListMine(ctx context.Context, shopperID string) ([]domain.Order, error)
	Get(ctx context.Context, principal domain.Principal, id string) (*domain.Order, error)
	List(ctx context.Context, principal domain.Principal, filter orderrepo.ListFilter, limit, offset int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, principal domain.Principal, id, newStatus string) (*domain.Order, error)
}

type productService interface {
	List(ctx context.Context, filter productrepo.ListFilter, limit, offset int) ([]domain.Product, int, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, principal domain.Principal, in productsvc.CreateInput) (*domain.Product, error)
	Update(ctx context.Context, principal domain.Principal, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
	Rate(ctx context.Context, id string, rating int) (*domain.Product, error)
}

type storeService interface {
	List(ctx context.Context, search string, limit, offset int) ([]domain.Store, int, error)
	Get(ctx context.Context, id string) (*domain.Store, error)
	Create(ctx context.Context, principal domain.Principal, in storesvc.CreateInput) (*domain.Store, error)
	Update(ctx context.Context, principal domain.Principal, id string, in storesvc.UpdateInput) (*domain.Store, error)
	Delete(ctx context.Context, principal domain.Principal, id string) error
	Rate(ctx context.Context, id string, rating int) (*domain.Store, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))

	authed := router.Group("/", authMiddleware(deps.AuthSvc))

	authed.GET("/auth/me", meHandler)

	authed.GET("/cart", getCartHandler(deps.CartSvc))
	authed.POST("/cart/items", addCartItemHandler(deps.CartSvc))
	authed.PUT("/cart/items/:productId", setCartQuantityHandler(deps.CartSvc))
	authed.DELETE("/cart/items/:productId", removeCartItemHandler(deps.CartSvc))
	authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

	authed.POST("/orders", checkoutHandler(deps.CheckoutSvc))
	authed.GET("/orders/mine", listMyOrdersHandler(deps.OrderSvc))
	authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
	authed.PUT("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
	authed.PUT("/orders/:id/cancel", cancelOrderHandler(deps.CheckoutSvc))

	router.GET("/products", listProductsHandler(deps.ProductSvc))
	router.GET("/products/:id", getProductHandler(deps.ProductSvc))
	authed.POST("/products", createProductHandler(deps.ProductSvc))
	authed.PUT("/products/:id", updateProductHandler(deps.ProductSvc))
	authed.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc))
	authed.POST("/products/:id/rating", rateProductHandler(deps.ProductSvc))

	router.GET("/stores", listStoresHandler(deps.StoreSvc))
	router.GET("/stores/:id", getStoreHandler(deps.StoreSvc))
	authed.POST("/stores", createStoreHandler(deps.StoreSvc))
	authed.PUT("/stores/:id", updateStoreHandler(deps.StoreSvc))
	authed.DELETE("/stores/:id", deleteStoreHandler(deps.StoreSvc))
	authed.POST("/stores/:id/rating", rateStoreHandler(deps.StoreSvc))

	return router, nil
}
