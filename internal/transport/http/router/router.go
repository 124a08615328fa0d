package router

import (
	"shop-service/internal/transport/http/handlers"
	"shop-service/internal/transport/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	Checkout *handlers.CheckoutHandler
	Webhook  *handlers.WebhookHandler
	Cart     *handlers.CartHandler
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
}

func Router(h Handlers, jwtSecret string, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Вебхук вне авторизации: провайдер аутентифицируется подписью тела.
	r.POST("/api/v1/webhooks/payments", h.Webhook.Handle)

	api := r.Group("/api/v1")

	products := api.Group("/products")
	{
		products.GET("", h.Products.List)
		products.GET("/:id", h.Products.Get)
	}

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(jwtSecret, log))
	{
		authed.POST("/products", h.Products.Create)
		authed.PATCH("/products/:id", h.Products.Update)
		authed.DELETE("/products/:id", h.Products.Delete)
		authed.GET("/products/:id/availability", h.Checkout.Availability)

		authed.GET("/cart", h.Cart.List)
		authed.POST("/cart", h.Cart.AddItem)
		authed.PATCH("/cart/:id", h.Cart.UpdateItem)
		authed.DELETE("/cart/:id", h.Cart.RemoveItem)
		authed.DELETE("/cart", h.Cart.Clear)

		authed.POST("/checkout/session", h.Checkout.CreateSession)

		authed.GET("/orders", h.Orders.ListMy)
		authed.GET("/orders/:id", h.Orders.Get)
		authed.GET("/orders/by-session/:sessionId", h.Orders.GetBySession)
	}

	return r
}
