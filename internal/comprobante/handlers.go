package comprobante

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleListComprobantes returns a list of all comprobantes
func (s *Server) handleListComprobantes(w http.ResponseWriter, r *http.Request) {
	comprobantes, err := s.service.ListComprobantes()
	if err != nil {
		slog.Error("Error listing comprobantes", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(comprobantes); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// parseSaleInfo reads the sale fields from the upload form. The sale
// date accepts date-only and full RFC3339 values.
func parseSaleInfo(r *http.Request) (SaleInfo, error) {
	saleID := strings.TrimSpace(r.FormValue("sale_id"))
	if saleID == "" {
		return SaleInfo{}, errors.New("sale_id is required")
	}

	total, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("sale_total")))
	if err != nil {
		return SaleInfo{}, errors.New("sale_total must be a decimal amount")
	}

	rawDate := strings.TrimSpace(r.FormValue("sale_date"))
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		date, err = time.Parse(time.RFC3339, rawDate)
		if err != nil {
			return SaleInfo{}, errors.New("sale_date must be YYYY-MM-DD or RFC3339")
		}
	}

	return SaleInfo{
		ID:            saleID,
		Total:         total,
		Date:          date,
		AccountHolder: strings.TrimSpace(r.FormValue("sale_account_holder")),
	}, nil
}

// handleUploadComprobante handles comprobante upload
func (s *Server) handleUploadComprobante(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 50MB to handle high-resolution phone photos)
	maxFormSize := int64(50 << 20) // 50MB
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		if err.Error() == "http: request body too large" {
			errorMsg = "File is too large. Maximum size is 50MB. Please compress or resize your image."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	sale, err := parseSaleInfo(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		errorMsg := "No file provided"
		if err.Error() == "http: no such file" {
			errorMsg = "No file was selected. Please choose a file to upload."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		jsonError(w, "File is too large. Maximum size is 50MB. Please compress or resize your image.", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		jsonError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	// Determine content type
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg":
			contentType = "image/jpeg"
		case ".png":
			contentType = "image/png"
		case ".pdf":
			contentType = "application/pdf"
		case ".heic":
			contentType = "image/heic"
		case ".heif":
			contentType = "image/heif"
		default:
			contentType = "application/octet-stream"
		}
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	c, err := s.service.ProcessComprobante(header.Filename, data, contentType, sale)
	if err != nil {
		slog.Error("Error processing comprobante", "filename", header.Filename, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(c); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetComprobante returns a single comprobante
func (s *Server) handleGetComprobante(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Comprobante ID required", http.StatusBadRequest)
		return
	}
	c, err := s.service.GetComprobante(id)
	if err != nil {
		corsError(w, "Comprobante not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleGetComprobanteFile returns the file for a comprobante
func (s *Server) handleGetComprobanteFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Comprobante ID required", http.StatusBadRequest)
		return
	}
	data, contentType, err := s.service.GetComprobanteFile(id)
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleValidation returns the validation verdict for a comprobante
func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Comprobante ID required", http.StatusBadRequest)
		return
	}
	result, err := s.service.Validation(id)
	if err != nil {
		slog.Error("Error validating comprobante", "id", id, "error", err)
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleApprove marks a comprobante validated, with optional field overrides
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Comprobante ID required", http.StatusBadRequest)
		return
	}

	var overrides *FieldOverrides
	if r.Body != nil {
		var o FieldOverrides
		if err := json.NewDecoder(r.Body).Decode(&o); err == nil {
			overrides = &o
		} else if !errors.Is(err, io.EOF) {
			corsError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	c, err := s.service.Approve(id, overrides)
	if err != nil {
		slog.Error("Error approving comprobante", "id", id, "error", err)
		code := http.StatusBadRequest
		if errors.Is(err, ErrNotPending) {
			code = http.StatusConflict
		}
		jsonError(w, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleReject marks a comprobante rejected
func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Comprobante ID required", http.StatusBadRequest)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		corsError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	c, err := s.service.Reject(id, req.Reason)
	if err != nil {
		slog.Error("Error rejecting comprobante", "id", id, "error", err)
		code := http.StatusBadRequest
		if errors.Is(err, ErrNotPending) {
			code = http.StatusConflict
		}
		jsonError(w, err.Error(), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(c); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleDeleteComprobante deletes a comprobante
func (s *Server) handleDeleteComprobante(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		corsError(w, "Comprobante ID required", http.StatusBadRequest)
		return
	}
	if err := s.service.DeleteComprobante(id); err != nil {
		corsError(w, "Error deleting comprobante", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
