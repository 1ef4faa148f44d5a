package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/DExploit123/skyview-blend/internal/weather"
)

var validate = validator.New()

// requestTimeout bounds the two outbound provider calls of one request.
const requestTimeout = 15 * time.Second

// ErrorHandler renders every handler error as {"error": "<message>"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		req, err := parseWeatherQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return respondWeather(c, service, req)
	})

	v1.Post("/weather", func(c *fiber.Ctx) error {
		var req weatherRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		return respondWeather(c, service, req)
	})

	v1.Get("/preferences/:userID", func(c *fiber.Ctx) error {
		prefs, err := service.GetPreferences(c.UserContext(), c.Params("userID"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(prefs)
	})

	v1.Put("/preferences/:userID", func(c *fiber.Ctx) error {
		var prefs weather.Preferences
		if err := c.BodyParser(&prefs); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		prefs.UserID = c.Params("userID")
		prefs.Location = strings.TrimSpace(prefs.Location)

		if err := validate.Struct(prefs); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		saved, err := service.SavePreferences(c.UserContext(), prefs)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(saved)
	})

	v1.Get("/alerts/:userID", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		alerts, w, err := service.CheckAlerts(ctx, c.Params("userID"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"location": w.Location,
			"alerts":   alerts,
		})
	})

	v1.Get("/travel", func(c *fiber.Ctx) error {
		destination := strings.TrimSpace(c.Query("destination"))
		if destination == "" {
			return fiber.NewError(fiber.StatusBadRequest, "destination is required")
		}
		units, ok := weather.ParseUnits(c.Query("units"))
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "units must be metric or imperial")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		w, err := service.FetchNormalized(ctx, weather.Query{Location: destination}, units)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(fiber.Map{
			"destination":    w.Location,
			"weather":        w,
			"recommendation": weather.TravelAdvice(w),
		})
	})
}

func respondWeather(c *fiber.Ctx, service *weather.Service, req weatherRequest) error {
	q, units, err := req.toQuery()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	w, err := service.FetchNormalized(ctx, q, units)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(w)
}

// mapError translates domain errors to HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Location not found")
	case errors.Is(err, weather.ErrUpstreamUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable, please retry")
	case errors.Is(err, weather.ErrConfiguration):
		return fiber.NewError(fiber.StatusInternalServerError, "weather service is not configured")
	case errors.Is(err, weather.ErrPreferencesNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no alert preferences for user")
	case errors.Is(err, weather.ErrNoAlertLocation):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "alert preferences have no location")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

// weatherRequest holds either a place name or a coordinate pair plus the unit system.
type weatherRequest struct {
	Location string   `json:"location" validate:"max=200"`
	Lat      *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon      *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
	Units    string   `json:"units" validate:"omitempty,oneof=metric imperial"`
}

func (r weatherRequest) toQuery() (weather.Query, weather.Units, error) {
	r.Location = strings.TrimSpace(r.Location)
	r.Units = strings.ToLower(strings.TrimSpace(r.Units))

	if err := validate.Struct(r); err != nil {
		return weather.Query{}, "", err
	}

	hasCoords := r.Lat != nil && r.Lon != nil
	switch {
	case (r.Lat == nil) != (r.Lon == nil):
		return weather.Query{}, "", errors.New("lat and lon must be provided together")
	case hasCoords && r.Location != "":
		return weather.Query{}, "", errors.New("provide either location or lat/lon, not both")
	case !hasCoords && r.Location == "":
		return weather.Query{}, "", errors.New("location or lat/lon is required")
	}

	units, _ := weather.ParseUnits(r.Units)
	return weather.Query{Location: r.Location, Lat: r.Lat, Lon: r.Lon}, units, nil
}

func parseWeatherQuery(c *fiber.Ctx) (weatherRequest, error) {
	req := weatherRequest{
		Location: c.Query("location"),
		Units:    c.Query("units"),
	}

	var err error
	if req.Lat, err = parseCoord(c.Query("lat")); err != nil {
		return req, errors.New("invalid lat")
	}
	if req.Lon, err = parseCoord(c.Query("lon")); err != nil {
		return req, errors.New("invalid lon")
	}
	return req, nil
}

func parseCoord(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
