package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/npv-calc/internal/config"
	"github.com/iwvelando/npv-calc/internal/registry"
	"github.com/iwvelando/npv-calc/internal/session"
	"github.com/iwvelando/npv-calc/internal/valuation"
	"github.com/iwvelando/npv-calc/pkg/constants"
	"github.com/iwvelando/npv-calc/pkg/finance"
	"github.com/iwvelando/npv-calc/pkg/format"
	"github.com/iwvelando/npv-calc/pkg/output"
	"github.com/iwvelando/npv-calc/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed static/*
var staticFiles embed.FS

// Error kinds reported to API clients.
const (
	kindMissingInput       = "missing_input"
	kindMalformedCashFlows = "malformed_cash_flows"
	kindEmptyCashFlows     = "empty_cash_flows"
	kindEmptyRegistry      = "empty_registry"
	kindInvalidRate        = "invalid_rate"
	kindInvalidInput       = "invalid_input"
	kindInternal           = "internal"
)

type handler struct {
	logger        *zap.Logger
	sessions      *session.Store
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the web UI and the
// valuation API. Each browser session works on its own registry held in
// sessions.
func NewHandler(logger *zap.Logger, sessions *session.Store, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if sessions == nil {
		sessions = session.NewStore(logger, 0)
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, sessions: sessions, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Session registry endpoints
	mux.HandleFunc("/api/projects", h.handleProjects)
	mux.HandleFunc("/api/npv", h.handleNPV)
	mux.HandleFunc("/api/session", h.handleSession)

	// Stateless valuation of an uploaded YAML configuration
	mux.HandleFunc("/api/evaluate", h.handleEvaluate)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return mux
}

// amount is a float64 that encodes non-finite values as JSON strings, since
// encoding/json refuses NaN and ±Inf.
type amount float64

func (a amount) MarshalJSON() ([]byte, error) {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(format.NumericCurrency(v))
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

func toAmounts(values []float64) []amount {
	out := make([]amount, len(values))
	for i, v := range values {
		out[i] = amount(v)
	}
	return out
}

type projectPayload struct {
	Name      string   `json:"name"`
	CashFlows []amount `json:"cashFlows"`
}

type projectsResponse struct {
	Projects []projectPayload `json:"projects"`
}

type addProjectRequest struct {
	Name      string `json:"name"`
	CashFlows string `json:"cashFlows"`
}

type addProjectResponse struct {
	Project     projectPayload `json:"project"`
	Overwritten bool           `json:"overwritten"`
	Message     string         `json:"message"`
}

type npvRequest struct {
	DiscountRate *float64 `json:"discountRate"` // percent
}

type npvResult struct {
	Name    string `json:"name"`
	NPV     amount `json:"npv"`
	Display string `json:"display"`
	Verdict string `json:"verdict"`
}

type npvResponse struct {
	DiscountRate float64     `json:"discountRate"`
	Results      []npvResult `json:"results"`
	CSV          string      `json:"csv"`
	Duration     string      `json:"duration"`
}

type evaluateResponse struct {
	npvResponse
	Projects   []projectPayload `json:"projects"`
	Warnings   []string         `json:"warnings,omitempty"`
	ConfigYAML string           `json:"configYaml,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (h *handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listProjects(w, r)
	case http.MethodPost:
		h.addProject(w, r)
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var resp projectsResponse
	_ = sess.Do(func(reg *registry.Registry) error {
		resp.Projects = toPayloads(reg.List())
		return nil
	})

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) addProject(w http.ResponseWriter, r *http.Request) {
	const op = "server.addProject"

	var req addProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	sess := h.session(w, r)

	var (
		overwritten bool
		project     registry.Project
	)
	err := sess.Do(func(reg *registry.Registry) error {
		var err error
		overwritten, err = reg.AddFromInput(req.Name, req.CashFlows)
		if err != nil {
			return err
		}
		project, _ = reg.Get(req.Name)
		return nil
	})
	if err != nil {
		h.respondInputError(w, err, op)
		return
	}

	h.logger.Info("project added",
		zap.String("op", op),
		zap.String("session", sess.ID),
		zap.String("project", project.Name),
		zap.Bool("overwritten", overwritten),
	)

	status := http.StatusCreated
	message := fmt.Sprintf("Project '%s' added successfully!", project.Name)
	if overwritten {
		status = http.StatusOK
		message = fmt.Sprintf("Project '%s' updated successfully!", project.Name)
	}
	h.writeJSON(w, status, addProjectResponse{
		Project:     projectPayload{Name: project.Name, CashFlows: toAmounts(project.CashFlows)},
		Overwritten: overwritten,
		Message:     message,
	})
}

func (h *handler) handleNPV(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleNPV"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()

	var req npvRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	percent := constants.DefaultDiscountRatePercent
	if req.DiscountRate != nil {
		percent = *req.DiscountRate
	}
	rate, err := valuation.RateFromPercent(percent)
	if err != nil {
		h.respondInputError(w, err, op)
		return
	}

	sess := h.session(w, r)

	var results []valuation.Result
	err = sess.Do(func(reg *registry.Registry) error {
		var err error
		results, err = valuation.Evaluate(h.logger, reg, rate)
		return err
	})
	if err != nil {
		h.respondInputError(w, err, op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("valuation computed",
		zap.String("op", op),
		zap.String("session", sess.ID),
		zap.Int("projects", len(results)),
		zap.Float64("discountRate", percent),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, buildNPVResponse(percent, rate, results, elapsed))
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		h.sessions.Delete(cookie.Value)
		h.logger.Info("session ended",
			zap.String("op", "server.handleSession"),
			zap.String("session", cookie.Value),
		)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEvaluate"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, kindInvalidInput,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, kindMissingInput, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, kindInternal, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, kindInvalidInput, err.Error(), op)
		return
	}
	if err := cfg.Validate(); err != nil {
		h.respondInputError(w, err, op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := valuation.GetValuations(h.logger, *cfg)
	if err != nil {
		h.respondInputError(w, err, op)
		return
	}

	rate, _ := valuation.RateFromPercent(cfg.DiscountRate)
	elapsed := time.Since(start)

	projects := make([]projectPayload, 0, len(cfg.Projects))
	for _, project := range cfg.Projects {
		flows, _ := project.CashFlowValues()
		projects = append(projects, projectPayload{Name: strings.TrimSpace(project.Name), CashFlows: toAmounts(flows)})
	}

	configYAML, err := yaml.Marshal(cfg)
	if err != nil {
		h.logger.Warn("failed to marshal evaluated configuration",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	h.logger.Info("configuration evaluated",
		zap.String("op", op),
		zap.Int("projects", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, evaluateResponse{
		npvResponse: buildNPVResponse(cfg.DiscountRate, rate, results, elapsed),
		Projects:    projects,
		Warnings:    warnings,
		ConfigYAML:  string(configYAML),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// session returns the caller's session, starting one and setting the
// cookie when the request carries no live session.
func (h *handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		id = cookie.Value
	}

	sess, created := h.sessions.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     constants.SessionCookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

func buildNPVResponse(percent, rate float64, results []valuation.Result, elapsed time.Duration) npvResponse {
	out := make([]npvResult, 0, len(results))
	for _, result := range results {
		out = append(out, npvResult{
			Name:    result.Name,
			NPV:     amount(result.NPV),
			Display: format.Currency(result.NPV),
			Verdict: output.Verdict(result.NPV),
		})
	}
	return npvResponse{
		DiscountRate: percent,
		Results:      out,
		CSV:          output.CsvString(rate, results),
		Duration:     elapsed.String(),
	}
}

func toPayloads(projects []registry.Project) []projectPayload {
	out := make([]projectPayload, 0, len(projects))
	for _, project := range projects {
		out = append(out, projectPayload{Name: project.Name, CashFlows: toAmounts(project.CashFlows)})
	}
	return out
}

// errorKind maps a rejected input to the kind reported to clients.
func errorKind(err error) string {
	switch {
	case errors.Is(err, registry.ErrMissingInput):
		return kindMissingInput
	case errors.Is(err, finance.ErrMalformedCashFlows):
		return kindMalformedCashFlows
	case errors.Is(err, finance.ErrEmptyCashFlows):
		return kindEmptyCashFlows
	case errors.Is(err, valuation.ErrEmptyRegistry):
		return kindEmptyRegistry
	case errors.Is(err, validation.ErrRateOutOfRange), errors.Is(err, finance.ErrInvalidDiscountRate):
		return kindInvalidRate
	case errors.Is(err, finance.ErrInvalidInput):
		return kindInvalidInput
	}
	return ""
}

func (h *handler) respondInputError(w http.ResponseWriter, err error, op string) {
	kind := errorKind(err)
	if kind == "" {
		// Configuration-level rejections (such as both cashFlows and amounts
		// set) carry no sentinel but are still the client's input.
		kind = kindInvalidInput
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, kind, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, kind, msg string, op string) {
	h.logger.Warn("request rejected",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("kind", kind),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
