package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "thebaker/internal/log"
	"thebaker/internal/services"
)

type SalesHandler struct {
	Catalog *services.CatalogService
	Predict *services.PredictionService
}

// Dashboard renders the staff landing page.
func (h *SalesHandler) Dashboard(c *fiber.Ctx) error {
	return render(c, "staff_dashboard", fiber.Map{})
}

// Forecast renders tomorrow's recommended baking quantities. Weather and
// temperature come from the query string (the counter tablet passes the
// forecast through).
func (h *SalesHandler) Forecast(c *fiber.Ctx) error {
	weather := c.Query("weather", "clear")
	temp, err := strconv.ParseFloat(c.Query("temp", "20"), 64)
	if err != nil {
		temp = 20
	}

	products, err := h.Catalog.ListAll()
	if err != nil {
		applog.Error(c, "sales.forecast.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the forecast"})
	}

	rows := make([]services.Prediction, 0, len(products))
	for _, p := range products {
		rows = append(rows, h.Predict.Predict(p.Name, weather, temp))
	}
	return render(c, "forecast", fiber.Map{
		"Rows":    rows,
		"Weather": weather,
		"Temp":    temp,
	})
}

// ForecastJSON is the same scoring surface for the API.
func (h *SalesHandler) ForecastJSON(c *fiber.Ctx) error {
	weather := c.Query("weather", "clear")
	temp, err := strconv.ParseFloat(c.Query("temp", "20"), 64)
	if err != nil {
		temp = 20
	}

	products, err := h.Catalog.ListAll()
	if err != nil {
		return fail(c, "sales.forecast", err)
	}
	rows := make([]services.Prediction, 0, len(products))
	for _, p := range products {
		rows = append(rows, h.Predict.Predict(p.Name, weather, temp))
	}
	return c.JSON(rows)
}
