package getAllEvents

import (
	"context"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/models"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/render"
)

const (
	defaultPage  = 1
	defaultLimit = 5
	maxLimit     = 100
)

type EventsResponse struct {
	response.Response
	Events     []models.Event `json:"events"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventsLister
type EventsLister interface {
	ListEvents(ctx context.Context, filter models.EventFilter) (*models.EventPage, error)
}

func New(log *slog.Logger, eventsLister EventsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.getAllEvents.New"

		log := log.With(slog.String("op", op))

		filter := ParseFilter(r.URL.Query())

		page, err := eventsLister.ListEvents(r.Context(), filter)
		if err != nil {
			log.Error("failed to get events", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to get events"))
			return
		}

		log.Info("events retrieved successfully",
			slog.Int("count", len(page.Events)),
			slog.Int("total", page.Total),
			slog.Int("page", page.Page),
		)

		responseOK(w, r, page)
	}
}

// ParseFilter reads the listing query. Malformed or missing values fall back
// to the defaults; upcoming accepts only "true" and "false".
func ParseFilter(q url.Values) models.EventFilter {
	filter := models.EventFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   defaultPage,
		Limit:  defaultLimit,
	}

	switch q.Get("upcoming") {
	case "true":
		upcoming := true
		filter.Upcoming = &upcoming
	case "false":
		upcoming := false
		filter.Upcoming = &upcoming
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		filter.Page = page
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		filter.Limit = min(limit, maxLimit)
	}

	return filter
}

func responseOK(w http.ResponseWriter, r *http.Request, page *models.EventPage) {
	render.JSON(w, r, EventsResponse{
		Response:   response.OK(),
		Events:     page.Events,
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	})
}
