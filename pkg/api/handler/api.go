package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dskvich/ai-assistant/pkg/api/response"
	"github.com/dskvich/ai-assistant/pkg/domain"
)

type describeResponse struct {
	Description string `json:"description"`
	SavedID     int64  `json:"saved_id,omitempty"`
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Save   bool   `json:"save"`
}

type generateResponse struct {
	ImageURL string `json:"image_url"`
	SavedID  int64  `json:"saved_id,omitempty"`
}

type api struct {
	assistant Assistant
	writer    response.JSONResponseWriter
}

func NewAPI(assistant Assistant) *api {
	return &api{
		assistant: assistant,
		writer:    response.JSONResponseWriter{},
	}
}

func (h *api) Describe(w http.ResponseWriter, r *http.Request) {
	name, image, err := readImage(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	description, err := h.assistant.Describe(r.Context(), name, image)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := describeResponse{Description: description}
	if isChecked(r, "save") {
		if resp.SavedID, err = h.assistant.Save(r.Context(), domain.NewAnalysis(name, description)); err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.writer.WriteSuccessResponse(w, resp)
}

func (h *api) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "decoding request: "+err.Error())
		return
	}
	if req.Prompt == "" {
		h.writeError(w, errMissingPrompt)
		return
	}

	imageURL, err := h.assistant.Generate(r.Context(), req.Prompt)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := generateResponse{ImageURL: imageURL}
	if req.Save {
		if resp.SavedID, err = h.assistant.Save(r.Context(), domain.NewGeneration(req.Prompt, imageURL)); err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.writer.WriteSuccessResponse(w, resp)
}

func (h *api) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.assistant.History(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if history == nil {
		history = []domain.SavedResponse{}
	}

	h.writer.WriteSuccessResponse(w, history)
}

func (h *api) SavedResponse(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid id")
		return
	}

	saved, err := h.assistant.SavedResponse(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writer.WriteSuccessResponse(w, saved)
}

func (h *api) writeError(w http.ResponseWriter, err error) {
	h.writer.WriteErrorResponse(w, statusCode(err), err.Error())
}
