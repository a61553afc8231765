package api

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/payment"
	"github.com/regalflowers/storefront-BE/internal/session"
	"github.com/regalflowers/storefront-BE/internal/token"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/rs/zerolog/log"
)

type Server struct {
	router        *gin.Engine
	config        *util.Config
	sessionStore  *session.Store
	backendClient *backend.Client
	tokenMaker    token.Maker
	dispatcher    *payment.Dispatcher
}

// NewServer creates a new HTTP server and set up routing.
func NewServer(config *util.Config, sessionStore *session.Store, backendClient *backend.Client) (*Server, error) {
	// Create a new JWT token maker
	tokenMaker, err := token.NewJWTMaker(config.TokenSecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create token maker: %w", err)
	}
	log.Info().Msg("Token maker created successfully ✅")

	// Create the payment dispatcher
	dispatcher := payment.NewDispatcher(backendClient, config)
	log.Info().Msg("Payment dispatcher created successfully ✅")

	server := &Server{
		config:        config,
		sessionStore:  sessionStore,
		backendClient: backendClient,
		tokenMaker:    tokenMaker,
		dispatcher:    dispatcher,
	}

	server.setupRouter()
	return server, nil
}

// setupRouter configures the HTTP server routes.
func (server *Server) setupRouter() *gin.Engine {
	gin.ForceConsoleColor()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     server.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	v1 := router.Group("/v1")

	v1.POST("/sessions", server.createSession)
	v1.POST("/tokens/verify", server.verifySessionToken)

	// Lookup lists used to populate selection fields
	v1.GET("/lookups/purposes", server.listPurposes)
	v1.GET("/lookups/residence-types", server.listResidenceTypes)

	cartGroup := v1.Group("/cart", sessionMiddleware(server.tokenMaker))
	{
		cartGroup.POST("/items", server.addCartItem)
		cartGroup.GET("/items", server.listCartItems)
		cartGroup.DELETE("/items/:key", server.removeCartItem)
	}

	checkoutGroup := v1.Group("/checkout", sessionMiddleware(server.tokenMaker))
	{
		checkoutGroup.GET("", server.getCheckout)
		checkoutGroup.PATCH("/form", server.updateForm)
		checkoutGroup.PUT("/delivery-date", server.setDeliveryDate)
		checkoutGroup.PUT("/currency", server.setCurrency)
		checkoutGroup.GET("/delivery-options", server.deliveryOptions)
		checkoutGroup.PUT("/sender-info", server.saveSenderInfo)
		checkoutGroup.POST("/advance", server.advanceStage)
		checkoutGroup.GET("/resume", server.resumeOrder)
		checkoutGroup.PUT("/auth-token", server.saveAuthToken)
	}

	paymentGroup := v1.Group("/payment", sessionMiddleware(server.tokenMaker))
	{
		paymentGroup.GET("/methods", server.listPaymentMethods)
		paymentGroup.POST("/:method/initiate", server.initiatePayment)
		paymentGroup.POST("/:method/verify", server.verifyPayment)
		paymentGroup.POST("/transfer-claim", server.submitTransferClaim)
	}

	server.router = router
	return router
}

// Start runs the HTTP server on a specific address.
func (server *Server) Start(address string) error {
	return server.router.Run(address)
}

// SetupWebhookRouter exposes the card gateway callback on its own engine so
// it can be bound separately from the shopper-facing API.
func (server *Server) SetupWebhookRouter() *gin.Engine {
	webhookRouter := gin.New()
	webhookRouter.Use(gin.Recovery())

	webhookRouter.POST("/v1/webhooks/card-gateway", server.handleGatewayWebhook)

	return webhookRouter
}
