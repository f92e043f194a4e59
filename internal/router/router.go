// Package router wires the HTTP surface: the authenticated operator
// API under /v1 and the token-addressed guest API under /v1/guest.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/ericfaux/dockslot-app-sub004/internal/config"
	"github.com/ericfaux/dockslot-app-sub004/internal/handler"
	"github.com/ericfaux/dockslot-app-sub004/internal/middleware"
	"github.com/ericfaux/dockslot-app-sub004/internal/service"
)

// New builds the Echo instance with all routes registered.  rdb may be
// nil, in which case the guest routes run without the shared rate
// limiter and rely on the in-process one inside the service.
func New(svc *service.BookingService, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	e.GET("/healthz", handler.Health)

	bookings := handler.NewBookingHandler(svc)
	guests := handler.NewGuestHandler(svc)

	api := e.Group("/v1", middleware.CaptainAuth(jwtSecret))
	api.POST("/bookings", bookings.Create)
	api.GET("/bookings", bookings.List)
	api.GET("/bookings/:id", bookings.Get)
	api.PATCH("/bookings/:id", bookings.Update)
	api.POST("/bookings/:id/cancel", bookings.Cancel)
	api.POST("/bookings/:id/no-show", bookings.NoShow)
	api.POST("/bookings/:id/complete", bookings.Complete)
	api.POST("/bookings/:id/weather-hold", bookings.SetWeatherHold)
	api.DELETE("/bookings/:id/weather-hold", bookings.ClearWeatherHold)
	api.POST("/bookings/:id/offers", bookings.CreateOffers)
	api.GET("/bookings/:id/offers", bookings.ListOffers)
	api.POST("/bookings/:id/offers/:offerID/accept", bookings.AcceptOffer)
	api.POST("/bookings/:id/payments", bookings.RecordPayment)
	api.GET("/availability/check", bookings.CheckAvailability)

	guest := e.Group("/v1/guest", middleware.NewTokenBucket(rlCfg, rdb))
	guest.GET("/:token", guests.Lookup)
	guest.GET("/:token/offers", guests.Offers)
	guest.POST("/:token/offers/:offerID/accept", guests.AcceptOffer)
	guest.POST("/:token/request-dates", guests.RequestDates)

	return e
}
