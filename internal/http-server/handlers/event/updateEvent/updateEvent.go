package updateEvent

import (
	"context"
	"errors"
	"eventBooking/internal/lib/api/request"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/lib/upload"
	"eventBooking/internal/models"
	"eventBooking/internal/storage"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// UpdateRequest is a partial update; absent fields are left unchanged.
type UpdateRequest struct {
	Title       *string `json:"title" form:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" form:"description"`
	EventDate   *string `json:"event_date" form:"event_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"start_time" form:"start_time" validate:"omitempty,datetime=15:04:05"`
	EndTime     *string `json:"end_time" form:"end_time" validate:"omitempty,datetime=15:04:05"`
	Location    *string `json:"location" form:"location"`
	MaxSeats    *int    `json:"max_seats" form:"max_seats" validate:"omitempty,min=1"`
	Tags        *string `json:"tags" form:"tags"`
}

func (req UpdateRequest) Patch() models.EventPatch {
	return models.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		MaxSeats:    req.MaxSeats,
		Tags:        req.Tags,
	}
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventUpdater
type EventUpdater interface {
	UpdateEvent(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageSaver
type ImageSaver interface {
	Save(src io.Reader, originalName string) (string, error)
	MaxSize() int64
}

func New(log *slog.Logger, eventUpdater EventUpdater, images ImageSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.updateEvent.New"

		log := log.With(slog.String("op", op))

		eventIDStr := chi.URLParam(r, "id")
		if eventIDStr == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		eventID, err := strconv.ParseInt(eventIDStr, 10, 64)
		if err != nil {
			log.Error("invalid event id format", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid event id format"))
			return
		}

		log = log.With(slog.Int64("event_id", eventID))

		var req UpdateRequest

		err = request.Decode(w, r, &req, images.MaxSize())
		if err != nil && !errors.Is(err, io.EOF) {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		patch := req.Patch()

		file, header, hasImage, err := request.FormFile(r, "image")
		if err != nil {
			log.Error("failed to read image", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if patch.Empty() && !hasImage {
			log.Info("empty update payload")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(storage.ErrEmptyUpdate.Error()))
			return
		}

		if hasImage {
			defer file.Close()

			imageURL, err := images.Save(file, header.Filename)
			if err != nil {
				log.Error("failed to save image", sl.Err(err))
				imageError(w, r, err)
				return
			}

			patch.ImageURL = &imageURL
		}

		event, err := eventUpdater.UpdateEvent(r.Context(), eventID, patch)
		if err != nil {
			updateError(log, w, r, err)
			return
		}

		log.Info("event updated")

		responseOK(w, r, event)
	}
}

func updateError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var capacityErr *models.CapacityError

	switch {
	case errors.Is(err, storage.ErrEventNotFound):
		log.Info("event not found")
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("event not found"))
	case errors.As(err, &capacityErr):
		log.Info("capacity below booked seats", slog.Int("booked_seats", capacityErr.BookedSeats))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(capacityErr.Error()))
	case errors.Is(err, models.ErrInvalidCapacity):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(models.ErrInvalidCapacity.Error()))
	case errors.Is(err, storage.ErrEmptyUpdate):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(storage.ErrEmptyUpdate.Error()))
	default:
		log.Error("failed to update event", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update event"))
	}
}

func imageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, upload.ErrNotImage), errors.Is(err, upload.ErrTooLarge):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save image"))
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, event *models.Event) {
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		Event:    event,
	})
}
