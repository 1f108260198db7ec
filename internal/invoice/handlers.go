package invoice

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	maxUploadSize = int64(20 << 20) // 20MB
	maxTextSize   = int64(2 << 20)  // 2MB
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// jsonError writes a JSON error body with CORS headers set
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func writeRecord(w http.ResponseWriter, record Record) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleHealth reports that the server is up
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleUploadInvoice extracts the fields of an uploaded invoice PDF
func (s *Server) handleUploadInvoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if strings.Contains(err.Error(), "request body too large") {
			errorMsg = "File is too large. Maximum size is 20MB."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		jsonError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	if !isPDF(header.Filename, header.Header.Get("Content-Type")) {
		jsonError(w, "Only PDF invoices are supported", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	record, err := s.service.ParsePDF(data)
	if err != nil {
		slog.Warn("Error extracting invoice", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeRecord(w, record)
}

// handleParseText extracts the fields of invoice text sent as the request body
func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTextSize))
	if err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := s.service.ParseText(string(body))
	if err != nil {
		slog.Warn("Error extracting invoice text", "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeRecord(w, record)
}

// isPDF accepts a PDF content type, or a .pdf name when the client sent none
func isPDF(filename, contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	switch contentType {
	case "application/pdf":
		return true
	case "", "application/octet-stream":
		return strings.EqualFold(filepath.Ext(filename), ".pdf")
	}
	return false
}
