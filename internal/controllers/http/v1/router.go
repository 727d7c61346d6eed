package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "weather-udp/docs"
	"weather-udp/internal/services/weather"
	"weather-udp/pkg/logger"
)

type routes struct {
	service *weather.WeatherService
	l       *logger.Logger
}

// NewRouter mounts the HTTP mirror of the UDP operations. Responses use the
// same envelope as the datagram protocol.
func NewRouter(
	app *fiber.App,
	weatherService *weather.WeatherService,
	l *logger.Logger,
) {
	r := &routes{
		service: weatherService,
		l:       l,
	}

	app.Get("/swagger/*", swagger.New(swagger.Config{
		DeepLinking: true,
	}))

	v1 := app.Group("/v1")
	v1.Get("/weather/:city", r.handleCurrent)
	v1.Get("/weather/:city/days/:day", r.handleDayDetail)
}
