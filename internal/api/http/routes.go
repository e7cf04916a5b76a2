package httpapi

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/gpx-trip-weather/internal/geo"
	"github.com/i474232898/gpx-trip-weather/internal/itinerary"
	"github.com/i474232898/gpx-trip-weather/internal/plans"
	"github.com/i474232898/gpx-trip-weather/internal/report"
	"github.com/i474232898/gpx-trip-weather/internal/route"
	"github.com/i474232898/gpx-trip-weather/internal/trip"
)

var validate = validator.New()

// PlansGauge is told the number of saved plans after every change.
type PlansGauge interface {
	PlansSet(n int)
}

// Deps are the collaborators the routes need. Location and Gauge are optional.
type Deps struct {
	Assembler *report.Assembler
	Plans     *plans.Registry
	Location  *time.Location
	Gauge     PlansGauge
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Centralized error response
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	h := &handlers{deps: deps}

	v1 := app.Group("/api/v1")

	v1.Post("/itinerary", h.itinerary)
	v1.Post("/timeline", h.timeline)

	v1.Get("/plans", h.listPlans)
	v1.Post("/plans", h.createPlan)
	v1.Get("/plans/:id", h.getPlan)
	v1.Get("/plans/:id/gpx", h.planGPX)
	v1.Delete("/plans/:id", h.deletePlan)
}

type handlers struct {
	deps Deps
}

// tripForm holds the multipart form fields shared by the trip endpoints.
type tripForm struct {
	Name       string `form:"name" validate:"max=120"`
	Start      string `form:"start" validate:"omitempty,datetime=2006-01-02"`
	End        string `form:"end" validate:"omitempty,datetime=2006-01-02"`
	Days       string `form:"days" validate:"omitempty,number,max=5"`
	MainRoutes string `form:"mainRoutes" validate:"max=32"`
}

type tripInput struct {
	name   string
	window trip.Window
	tracks []route.Track
}

func (h *handlers) itinerary(c *fiber.Ctx) error {
	in, err := h.bindTrip(c)
	if err != nil {
		return err
	}

	rep, err := h.deps.Assembler.Assemble(c.UserContext(), in.tracks, in.window)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(rep)
}

func (h *handlers) timeline(c *fiber.Ctx) error {
	in, err := h.bindTrip(c)
	if err != nil {
		return err
	}
	return writeGPX(c, in.tracks)
}

func (h *handlers) listPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"plans": h.deps.Plans.List(),
	})
}

func (h *handlers) createPlan(c *fiber.Ctx) error {
	in, err := h.bindTrip(c)
	if err != nil {
		return err
	}

	rep, err := h.deps.Assembler.Assemble(c.UserContext(), in.tracks, in.window)
	if err != nil {
		return mapError(err)
	}

	p := h.deps.Plans.Create(plans.Plan{
		Name:   in.name,
		Window: in.window,
		Tracks: in.tracks,
		Report: rep,
	})
	h.plansChanged()

	log.Printf("INFO: saved plan %s (%s)", p.ID, p.Window)
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *handlers) getPlan(c *fiber.Ctx) error {
	p, err := h.deps.Plans.Get(c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(p)
}

func (h *handlers) planGPX(c *fiber.Ctx) error {
	p, err := h.deps.Plans.Get(c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return writeGPX(c, p.Tracks)
}

func (h *handlers) deletePlan(c *fiber.Ctx) error {
	if err := h.deps.Plans.Delete(c.Params("id")); err != nil {
		return mapError(err)
	}
	h.plansChanged()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) plansChanged() {
	if h.deps.Gauge != nil {
		h.deps.Gauge.PlansSet(h.deps.Plans.Len())
	}
}

// bindTrip parses the form fields and uploaded GPX files, resolves the trip
// window and builds the timed tracks.
func (h *handlers) bindTrip(c *fiber.Ctx) (tripInput, error) {
	var form tripForm
	if err := c.BodyParser(&form); err != nil {
		return tripInput{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(form); err != nil {
		return tripInput{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	req, err := form.request(h.deps.Location)
	if err != nil {
		return tripInput{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	window, err := trip.Resolve(req)
	if err != nil {
		return tripInput{}, mapError(err)
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return tripInput{}, fiber.NewError(fiber.StatusBadRequest, "multipart form with gpx files is required")
	}
	files := mf.File["gpx"]
	if len(files) == 0 {
		return tripInput{}, fiber.NewError(fiber.StatusBadRequest, "at least one gpx file is required")
	}

	var routes []route.Route
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return tripInput{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		rs, err := route.Parse(f)
		f.Close()
		if err != nil {
			return tripInput{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s: %v", fh.Filename, err))
		}
		routes = append(routes, rs...)
	}
	routes = route.FilterMainRoutes(routes, form.MainRoutes)

	tracks, err := itinerary.Build(routes, window)
	if err != nil {
		return tripInput{}, mapError(err)
	}

	return tripInput{name: form.Name, window: window, tracks: tracks}, nil
}

func (f tripForm) request(loc *time.Location) (trip.Request, error) {
	var req trip.Request
	if f.Start != "" {
		t, err := trip.ParseDate(f.Start, loc)
		if err != nil {
			return req, err
		}
		req.Start = &t
	}
	if f.End != "" {
		t, err := trip.ParseDate(f.End, loc)
		if err != nil {
			return req, err
		}
		req.End = &t
	}
	if f.Days != "" {
		n, err := strconv.Atoi(f.Days)
		if err != nil {
			return req, fmt.Errorf("days must be a whole number: %s", f.Days)
		}
		req.Days = &n
	}
	return req, nil
}

func writeGPX(c *fiber.Ctx, tracks []route.Track) error {
	c.Set(fiber.HeaderContentType, "application/gpx+xml")
	if err := route.WriteTracks(c, tracks); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return nil
}

// mapError translates domain errors into HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, trip.ErrConfiguration):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, itinerary.ErrZeroDistance),
		errors.Is(err, itinerary.ErrNoRoutes),
		errors.Is(err, itinerary.ErrEmptyRoute),
		errors.Is(err, geo.ErrInvalidCoordinate):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, plans.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: request failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build trip report")
	}
}
