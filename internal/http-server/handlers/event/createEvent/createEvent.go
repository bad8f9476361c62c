package createEvent

import (
	"context"
	"errors"
	"eventBooking/internal/lib/api/request"
	"eventBooking/internal/lib/api/response"
	"eventBooking/internal/lib/logger/sl"
	"eventBooking/internal/lib/upload"
	"eventBooking/internal/models"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type EventRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=100"`
	Description string `json:"description" form:"description" validate:"required"`
	EventDate   string `json:"event_date" form:"event_date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" form:"start_time" validate:"required,datetime=15:04:05"`
	EndTime     string `json:"end_time" form:"end_time" validate:"required,datetime=15:04:05"`
	Location    string `json:"location" form:"location" validate:"required"`
	MaxSeats    int    `json:"max_seats" form:"max_seats" validate:"required,min=1"`
	Tags        string `json:"tags" form:"tags" validate:"required"`
}

type EventResponse struct {
	response.Response
	Event *models.Event `json:"event,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ctx context.Context, event models.Event) (*models.Event, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ImageSaver
type ImageSaver interface {
	Save(src io.Reader, originalName string) (string, error)
	MaxSize() int64
}

func New(log *slog.Logger, eventCreator EventCreator, images ImageSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log := log.With(slog.String("op", op))

		var req EventRequest

		err := request.Decode(w, r, &req, images.MaxSize())
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		imageURL, err := saveImage(r, images)
		if err != nil {
			log.Error("failed to save image", sl.Err(err))
			imageError(w, r, err)
			return
		}

		event, err := eventCreator.CreateEvent(r.Context(), models.Event{
			Title:       req.Title,
			Description: req.Description,
			EventDate:   req.EventDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Location:    req.Location,
			ImageURL:    imageURL,
			MaxSeats:    req.MaxSeats,
			Tags:        req.Tags,
		})
		if err != nil {
			log.Error("failed to add event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add event"))
			return
		}

		log.Info("event added", slog.Int64("id", event.ID))

		render.Status(r, http.StatusCreated)
		responseOK(w, r, event)
	}
}

// saveImage stores the optional "image" part and returns its public URL,
// or an empty string when the request carries no image.
func saveImage(r *http.Request, images ImageSaver) (string, error) {
	file, header, ok, err := request.FormFile(r, "image")
	if err != nil || !ok {
		return "", err
	}
	defer file.Close()

	return images.Save(file, header.Filename)
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
