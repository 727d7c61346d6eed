package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"weather-udp/internal/models"
	"weather-udp/internal/protocol"
	"weather-udp/internal/services/weather"
)

// GetCurrentWeather godoc
// @Summary Current weather for a city
// @Description Current conditions with the next 48 hours and 7 days. Served from OpenWeather, or from generated data when the upstream is unavailable.
// @Tags Weather
// @Produce json
// @Param city path string true "City name" example(Hanoi)
// @Success 200 {object} protocol.Response "Envelope with a current payload"
// @Failure 400 {object} protocol.Response "Invalid request"
// @Failure 500 {object} protocol.Response "Server error"
// @Router /v1/weather/{city} [get]
// @Example {curl} Example usage:
//
//	curl -X GET "http://localhost:8080/v1/weather/Hanoi"
func (r *routes) handleCurrent(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Params("city"))
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(protocol.NewErrorResponse("Invalid request: city is required"))
	}

	payload, err := r.service.CurrentWeather(c.UserContext(), city)
	if err != nil {
		r.l.Error(err, map[string]any{"city": city})
		return c.Status(fiber.StatusInternalServerError).JSON(protocol.NewErrorResponse(err.Error()))
	}

	return c.JSON(protocol.NewCurrentResponse(payload))
}

// GetDayDetail godoc
// @Summary Details of one forecast day
// @Description Day statistics, the hourly entries of that UTC day and a snapshot of today for comparison.
// @Tags Weather
// @Produce json
// @Param city path string true "City name" example(Tokyo)
// @Param day path string true "Unix timestamp inside the day, or YYYY-MM-DD" example(2026-10-18)
// @Success 200 {object} protocol.Response "Envelope with a day detail payload"
// @Failure 400 {object} protocol.Response "Invalid request"
// @Failure 404 {object} protocol.Response "Day not found in forecast"
// @Failure 500 {object} protocol.Response "Server error"
// @Router /v1/weather/{city}/days/{day} [get]
func (r *routes) handleDayDetail(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Params("city"))
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(protocol.NewErrorResponse("Invalid request: city is required"))
	}

	day, err := models.ParseDay(c.Params("day"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(protocol.NewErrorResponse("Invalid request: " + err.Error()))
	}

	payload, err := r.service.DayDetail(c.UserContext(), city, day)
	switch {
	case errors.Is(err, weather.ErrDayNotFound):
		return c.Status(fiber.StatusNotFound).JSON(protocol.NewErrorResponse(err.Error()))
	case err != nil:
		r.l.Error(err, map[string]any{"city": city, "dayTimestamp": day})
		return c.Status(fiber.StatusInternalServerError).JSON(protocol.NewErrorResponse(err.Error()))
	}

	return c.JSON(protocol.NewDayDetailResponse(payload))
}
