package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework to handle routing
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/hotel-booking/internal/handler"    // handlers that implement business logic
	"github.com/iliyamo/hotel-booking/internal/middleware" // middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: the health check and the Prometheus scrape
// endpoint.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use /healthz to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access issues a new
	// access token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require JWT authentication: it accepts either a
	// bearer token (revoke all sessions) or a refresh_token body (revoke
	// one session).
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)

	// Also map POST /v1/logout outside the protected group so clients can
	// terminate a session with only a refresh token in the body.
	e.POST("/v1/logout", a.Logout)
}

// RegisterPublic registers unauthenticated browse endpoints.  The cache
// middleware wraps every route here: these are the read-heavy catalogue
// and availability queries.
func RegisterPublic(e *echo.Echo, hotels *handler.HotelHandler, rooms *handler.RoomHandler, facilities *handler.FacilityHandler, cache echo.MiddlewareFunc) {
	// Availability search over all hotels; date_from/date_to are required.
	e.GET("/v1/hotels", hotels.Search, cache)
	// Hotel details by id.
	e.GET("/v1/hotels/:id", hotels.Get, cache)
	// Rooms of a hotel that still have a free unit in the range.
	e.GET("/v1/hotels/:id/rooms", rooms.ListAvailable, cache)
	// Room details with facilities.
	e.GET("/v1/hotels/:id/rooms/:room_id", rooms.Get, cache)
	// The whole facilities catalogue.
	e.GET("/v1/facilities", facilities.List, cache)
}

// RegisterProtected registers the authenticated management and booking
// endpoints under /v1 behind the JWT middleware.
func RegisterProtected(e *echo.Echo, jwtSecret string, hotels *handler.HotelHandler, rooms *handler.RoomHandler, facilities *handler.FacilityHandler, bookings *handler.BookingHandler, images *handler.ImageHandler) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Hotel management.
	auth.POST("/hotels", hotels.Create)
	auth.PUT("/hotels/:id", hotels.Update)
	auth.PATCH("/hotels/:id", hotels.Patch)
	auth.DELETE("/hotels/:id", hotels.Delete)

	// Room management.
	auth.POST("/hotels/:id/rooms", rooms.Create)
	auth.PUT("/hotels/:id/rooms/:room_id", rooms.Update)
	auth.PATCH("/hotels/:id/rooms/:room_id", rooms.Patch)
	auth.DELETE("/hotels/:id/rooms/:room_id", rooms.Delete)

	// Facilities catalogue management.
	auth.POST("/facilities", facilities.Create)

	// Bookings.
	auth.POST("/bookings", bookings.Create)
	auth.GET("/bookings", bookings.ListAll)
	auth.GET("/bookings/me", bookings.ListMine)
	auth.GET("/bookings/:id", bookings.Get)
	auth.DELETE("/bookings/:id", bookings.Delete)

	// Image uploads for hotels and rooms.
	auth.POST("/images", images.Upload)
}
