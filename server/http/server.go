package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/w-h-a/lectern"
)

type handler struct {
	assistant *lectern.Assistant
}

type ingestResponse struct {
	Filename string `json:"filename"`
	Slides   int    `json:"slides,omitempty"`
	Chunks   int    `json:"chunks,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer  string       `json:"answer"`
	Sources []sourceJSON `json:"sources"`
}

type sourceJSON struct {
	Filename string `json:"filename"`
	Slide    int    `json:"slide_number"`
}

func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	var files []lectern.File

	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			part, err := header.Open()
			if err != nil {
				http.Error(w, "failed to read upload", http.StatusBadRequest)
				return
			}

			content, err := io.ReadAll(part)
			part.Close()
			if err != nil {
				http.Error(w, "failed to read upload", http.StatusBadRequest)
				return
			}

			files = append(files, lectern.File{Name: header.Filename, Content: content})
		}
	}

	if len(files) == 0 {
		http.Error(w, "no files provided", http.StatusBadRequest)
		return
	}

	results := h.assistant.IngestAll(r.Context(), files)

	responses := make([]ingestResponse, 0, len(results))

	for _, result := range results {
		rsp := ingestResponse{Filename: result.Filename}
		if result.Err != nil {
			rsp.Error = result.Err.Error()
		}
		if result.Report != nil {
			rsp.Slides = result.Report.Slides
			rsp.Chunks = result.Report.Chunks
			rsp.Skipped = result.Report.Skipped
		}
		responses = append(responses, rsp)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	files, err := h.assistant.Files(r.Context())
	if err != nil {
		http.Error(w, "failed to list files", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"files": files})
}

func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(req.Query) == 0 {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	answer, err := h.assistant.Ask(r.Context(), req.Query)
	if err != nil {
		http.Error(w, "could not retrieve or generate an answer", http.StatusBadGateway)
		return
	}

	rsp := askResponse{
		Answer:  answer.Text,
		Sources: make([]sourceJSON, 0, len(answer.Sources)),
	}

	for _, source := range answer.Sources {
		rsp.Sources = append(rsp.Sources, sourceJSON{
			Filename: source.Filename,
			Slide:    source.Slide,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rsp)
}

func NewHandler(assistant *lectern.Assistant) http.Handler {
	h := &handler{assistant: assistant}

	router := mux.NewRouter()
	router.HandleFunc("/v1/documents", h.upload).Methods(http.MethodPost)
	router.HandleFunc("/v1/documents", h.list).Methods(http.MethodGet)
	router.HandleFunc("/v1/ask", h.ask).Methods(http.MethodPost)

	return router
}
