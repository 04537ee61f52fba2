package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/yrno-forecast/internal/forecast"
	"github.com/i474232898/yrno-forecast/internal/weather"
)

var validate = validator.New()

// Forecaster is the part of weather.Client the handlers need.
type Forecaster interface {
	GetWeather(ctx context.Context, loc weather.Location, version ...string) (*forecast.LocationForecast, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, client Forecaster) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		f, _, err := fetch(c, client)
		if err != nil {
			return err
		}

		var fc *forecast.Forecast
		if at := c.Query("time"); at != "" {
			fc, err = f.ForecastForTimeString(at)
		} else {
			fc, err = f.ForecastForTime(timeNow())
		}
		if err != nil {
			return mapError(err)
		}
		if fc == nil {
			return fiber.NewError(fiber.StatusNotFound, "requested time is outside the forecast range")
		}
		return c.JSON(fc)
	})

	v1.Get("/summary", func(c *fiber.Ctx) error {
		f, loc, err := fetch(c, client)
		if err != nil {
			return err
		}

		summary, err := f.FiveDaySummary(c.UserContext())
		if err != nil {
			return mapError(err)
		}

		return c.JSON(fiber.Map{
			"id":     f.ID().String(),
			"days":   summary,
			"digest": weather.BuildDigest(loc, summary),
		})
	})

	v1.Get("/timestamps", func(c *fiber.Ctx) error {
		f, _, err := fetch(c, client)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"first":      f.FirstDateInPayload(),
			"last":       f.LastDateInPayload(),
			"timestamps": f.ValidTimestamps(),
		})
	})

	v1.Get("/xml", func(c *fiber.Ctx) error {
		f, _, err := fetch(c, client)
		if err != nil {
			return err
		}
		c.Type("xml")
		return c.SendString(f.XML())
	})

	v1.Get("/json", func(c *fiber.Ctx) error {
		f, _, err := fetch(c, client)
		if err != nil {
			return err
		}
		b, err := f.JSON()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render forecast")
		}
		c.Type("json")
		return c.Send(b)
	})
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	Lat     string `validate:"required,latitude"`
	Lon     string `validate:"required,longitude"`
	Msl     string `validate:"omitempty,number"`
	Version string `validate:"omitempty,max=8"`
}

func (l locationQuery) toLocation() weather.Location {
	lat, _ := strconv.ParseFloat(l.Lat, 64)
	lon, _ := strconv.ParseFloat(l.Lon, 64)
	loc := weather.Location{Latitude: lat, Longitude: lon}
	if l.Msl != "" {
		if msl, err := strconv.Atoi(l.Msl); err == nil {
			loc.Altitude = &msl
		}
	}
	return loc
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.Lat = c.Query("lat")
	q.Lon = c.Query("lon")
	q.Msl = c.Query("msl")
	q.Version = c.Query("version")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// fetch validates the location query and fetches its forecast.
func fetch(c *fiber.Ctx, client Forecaster) (*forecast.LocationForecast, weather.Location, error) {
	q, err := parseLocationQuery(c)
	if err != nil {
		return nil, weather.Location{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc := q.toLocation()
	f, err := client.GetWeather(c.UserContext(), loc, q.Version)
	if err != nil {
		return nil, loc, mapError(err)
	}
	return f, loc, nil
}

func mapError(err error) error {
	var (
		invalid  *forecast.InvalidTimeError
		fetchErr *weather.FetchError
		parseErr *forecast.ParseError
	)
	switch {
	case errors.As(err, &invalid):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.As(err, &fetchErr):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.As(err, &parseErr):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
	}
}
