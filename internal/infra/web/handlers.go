package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"recharge-inventory/internal/csvio"
	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/infra/logging"
	"recharge-inventory/internal/usecase"
)

type errorBody struct {
	Error string   `json:"error"`
	Items []string `json:"items,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCodeNotAvailable),
		errors.Is(err, domain.ErrSaleInProgress),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrInvalidPlatform),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrImportBlocked),
		errors.Is(err, domain.ErrImportEmpty):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrStoreUnconfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeErr maps a use-case error to a status and JSON body. Unexpected
// failures are logged and reported without internals.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	var detailed *usecase.DetailedError
	if errors.As(err, &detailed) {
		body.Error = detailed.Kind.Error()
		body.Items = detailed.Items
	}
	if status == http.StatusInternalServerError {
		logging.With(r.Context(), s.log).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		body = errorBody{Error: "internal error"}
	}
	writeJSON(w, status, body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		badRequest(w, "request body is required")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "invalid request body")
		return false
	}
	return true
}

// readUpload returns the uploaded CSV text, either from the multipart field
// "file" or from the raw request body.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var src io.Reader = r.Body
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			badRequest(w, "invalid multipart upload")
			return "", false
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			badRequest(w, `multipart field "file" is required`)
			return "", false
		}
		defer f.Close()
		src = f
	}
	data, err := io.ReadAll(src)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "upload too large"})
			return "", false
		}
		badRequest(w, "could not read upload")
		return "", false
	}
	return string(data), true
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

// handleSessionStart re-mints the caller's token with a fresh TTL and stores it in the session cookie.
func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	tok, err := s.sessions.Mint(u)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	s.sessions.SetCookie(w, tok)
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleSessionEnd(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.statsUC.Dashboard(r.Context(), userFrom(r.Context()))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := usecase.CodeFilter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Type:     q.Get("type"),
		Platform: q.Get("platform"),
	}
	codes, err := s.inventoryUC.List(r.Context(), userFrom(r.Context()), f)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Items []*model.RechargeCode `json:"items"`
	}{Items: codes})
}

func (s *Server) handleCreateCode(w http.ResponseWriter, r *http.Request) {
	var in usecase.CodeInput
	if !decodeJSON(w, r, s.maxUpload, &in) {
		return
	}
	c, err := s.inventoryUC.Create(r.Context(), userFrom(r.Context()), in)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCode(w http.ResponseWriter, r *http.Request) {
	c, err := s.inventoryUC.Get(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateCode(w http.ResponseWriter, r *http.Request) {
	var in usecase.CodeInput
	if !decodeJSON(w, r, s.maxUpload, &in) {
		return
	}
	c, err := s.inventoryUC.Update(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCode(w http.ResponseWriter, r *http.Request) {
	if err := s.inventoryUC.Delete(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type sellRequest struct {
	SoldTo string `json:"soldTo"`
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req sellRequest
	if !decodeJSON(w, r, s.maxUpload, &req) {
		return
	}
	t, err := s.inventoryUC.Sell(r.Context(), userFrom(r.Context()), chi.URLParam(r, "id"), req.SoldTo)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="import_template.csv"`)
	_, _ = io.WriteString(w, csvio.ImportTemplate())
}

func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	content, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	res, err := s.inventoryUC.PreviewImport(r.Context(), userFrom(r.Context()), content)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type importResponse struct {
	Imported int                   `json:"imported"`
	Codes    []*model.RechargeCode `json:"codes"`
}

// handleImport commits an import. A JSON body carries previewed candidates;
// anything else is treated as CSV and parsed first.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	actor := userFrom(r.Context())
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/json" {
		var req struct {
			Candidates []csvio.Candidate `json:"candidates"`
		}
		if !decodeJSON(w, r, s.maxUpload, &req) {
			return
		}
		codes, err := s.inventoryUC.BulkImport(r.Context(), actor, req.Candidates)
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, importResponse{Imported: len(codes), Codes: codes})
		return
	}

	content, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	_, codes, err := s.inventoryUC.ImportCSV(r.Context(), actor, content)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, importResponse{Imported: len(codes), Codes: codes})
}

func transactionFilter(r *http.Request) usecase.TransactionFilter {
	q := r.URL.Query()
	return usecase.TransactionFilter{
		Search:   q.Get("search"),
		Platform: q.Get("platform"),
		Period:   strings.ToLower(q.Get("period")),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, sum, err := s.txUC.List(r.Context(), userFrom(r.Context()), transactionFilter(r))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Items   []*model.Transaction       `json:"items"`
		Summary usecase.TransactionSummary `json:"summary"`
	}{Items: txs, Summary: sum})
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := s.txUC.Export(r.Context(), userFrom(r.Context()), transactionFilter(r), &buf)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = buf.WriteTo(w)
}
