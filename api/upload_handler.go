package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rpupo63/blog-platform-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipart framing on top of the image itself
const uploadOverhead = 64 << 10

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	users     *services.UserDirectory
	uploader  *services.ImageUploader
}

func newUploadHandler(users *services.UserDirectory, uploader *services.ImageUploader) *uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return &uploadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		users:     users,
		uploader:  uploader,
	}
}

// uploadImage stores an image and returns its public URL
// @Summary Upload image
// @Description Accepts a multipart "image" field of at most 2 MB with an image content type
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Success 200 {object} UploadImageResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Too large or not an image"
// @Router /upload-image [post]
func (h *uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := currentActor(r, h.users); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+uploadOverhead)
		file, header, err := r.FormFile("image")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(services.MaxImageSize))
				return
			}
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("image"))
			return
		}
		defer file.Close()

		// one byte past the limit is enough to detect an oversize file
		data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		url, err := h.uploader.Upload(r.Context(), header.Filename, data)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, UploadImageResponse{ImageURL: url})
	}
}
