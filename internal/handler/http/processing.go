package http

import (
	"net/http"

	"github.com/studiofit/attendance-backend-go/internal/domain/processing"
	"github.com/studiofit/attendance-backend-go/internal/handler/http/response"
)

type ProcessingHandler interface {
	RunSweep(w http.ResponseWriter, r *http.Request)
}

type processingHandlerImpl struct {
	processingService processing.Service
}

func NewProcessingHandler(processingService processing.Service) ProcessingHandler {
	return &processingHandlerImpl{
		processingService: processingService,
	}
}

// RunSweep implements ProcessingHandler. It runs the sweep synchronously so
// the caller gets the counts back.
func (h *processingHandlerImpl) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := h.processingService.RunSweep(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sweep completed", result)
}
