package lead

import (
	"io"
	"net/http"

	"aqarna-listings/internal/common/errors"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	service *Service
	errors  *errors.ErrorHandler
}

func NewHandler(service *Service, errHandler *errors.ErrorHandler) *Handler {
	return &Handler{service: service, errors: errHandler}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.errors.Handle(w, r, errors.NewInvalidJSONError(err))
		return
	}

	result, err := h.service.Submit(r.Context(), raw)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	errors.WriteJSON(w, http.StatusOK, result)
}
