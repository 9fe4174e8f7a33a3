package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dskvich/ai-assistant/pkg/domain"
	"github.com/dskvich/ai-assistant/pkg/logger"
	"github.com/dskvich/ai-assistant/pkg/render"
)

//go:embed templates/index.html
var templatesFS embed.FS

type pageData struct {
	Description template.HTML
	ImageURL    string
	SavedID     int64
	Error       string
	History     []domain.SavedResponse
}

type web struct {
	assistant Assistant
	tmpl      *template.Template
}

func NewWeb(assistant Assistant) (*web, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &web{
		assistant: assistant,
		tmpl:      tmpl,
	}, nil
}

func (h *web) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, &pageData{})
}

func (h *web) Describe(w http.ResponseWriter, r *http.Request) {
	name, image, err := readImage(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	description, err := h.assistant.Describe(r.Context(), name, image)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := &pageData{Description: render.ToHTML(description)}
	if isChecked(r, "save") {
		data.SavedID, err = h.assistant.Save(r.Context(), domain.NewAnalysis(name, description))
		if err != nil {
			data.Error = fmt.Sprintf("saving response: %v", err)
		}
	}

	h.render(w, r, http.StatusOK, data)
}

func (h *web) Generate(w http.ResponseWriter, r *http.Request) {
	prompt := r.FormValue("prompt")
	if prompt == "" {
		h.renderError(w, r, errMissingPrompt)
		return
	}

	imageURL, err := h.assistant.Generate(r.Context(), prompt)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := &pageData{ImageURL: imageURL}
	if isChecked(r, "save") {
		data.SavedID, err = h.assistant.Save(r.Context(), domain.NewGeneration(prompt, imageURL))
		if err != nil {
			data.Error = fmt.Sprintf("saving response: %v", err)
		}
	}

	h.render(w, r, http.StatusOK, data)
}

func (h *web) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.render(w, r, statusCode(err), &pageData{Error: err.Error()})
}

func (h *web) render(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	history, err := h.assistant.History(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "loading history", logger.Err(err))
	}
	data.History = history

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		slog.ErrorContext(r.Context(), "rendering page", logger.Err(err))
		http.Error(w, "rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.ErrorContext(r.Context(), "writing page", logger.Err(err))
	}
}

func isChecked(r *http.Request, field string) bool {
	switch r.FormValue(field) {
	case "on", "true", "1":
		return true
	}
	return false
}
