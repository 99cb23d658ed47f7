package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"financial-document-analyzer/internal/infra/logging"
	"financial-document-analyzer/internal/usecase"
)

// multipart parts above this size spill to temporary files
const formMemory = 8 << 20

type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}

func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Financial Document Analyzer API is running"})
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// analyzeHandler accepts a multipart upload with a required "file" part and
// an optional "query" field.
func analyzeHandler(uc usecase.AnalysisUseCase, maxUploadSize int64, logger *zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logging.With(ctx, logger)

		if maxUploadSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		}
		if err := r.ParseMultipartForm(formMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeDetail(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
				return
			}
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid multipart form: "+err.Error())
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile("file")
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "Field required: file")
			return
		}
		defer file.Close()

		res, err := uc.Analyze(ctx, file, header.Filename, r.FormValue("query"))
		if err != nil {
			log.Error().Err(err).Str("file", header.Filename).Msg("analysis failed")
			writeDetail(w, http.StatusInternalServerError, "Error processing financial document: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
