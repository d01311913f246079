package http

import (
	"encoding/json"
	"net/http"

	"github.com/studiofit/attendance-backend-go/internal/domain/classsession"
	"github.com/studiofit/attendance-backend-go/internal/handler/http/response"
)

type ClassSessionHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
}

type classSessionHandlerImpl struct {
	classSessionService classsession.Service
}

func NewClassSessionHandler(classSessionService classsession.Service) ClassSessionHandler {
	return &classSessionHandlerImpl{
		classSessionService: classSessionService,
	}
}

// CheckIn implements ClassSessionHandler.
func (h *classSessionHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req classsession.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.classSessionService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Class check-in successful", result)
}

// CheckOut implements ClassSessionHandler.
func (h *classSessionHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req classsession.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.classSessionService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
