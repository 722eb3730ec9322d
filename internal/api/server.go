package api

import (
	"context"
	"net/http"
	"strings"

	"gradeflow/internal/config"
	"gradeflow/internal/credentials"
	"gradeflow/internal/grading"
	"gradeflow/internal/logger"
	"gradeflow/internal/models"
	"gradeflow/internal/plagiarism"
	"gradeflow/internal/workflows"

	"github.com/gorilla/mux"
)

type Grader interface {
	Grade(ctx context.Context, req grading.Request, creds credentials.Credentials) (string, error)
	Feedback(ctx context.Context, req grading.Request, creds credentials.Credentials) (string, error)
}

type Checker interface {
	Check(ctx context.Context, req plagiarism.Request, creds credentials.Credentials) ([]plagiarism.Match, error)
}

type Evaluations interface {
	Start(ctx context.Context, in workflows.EvaluationInput) (models.EvaluationAccepted, error)
	Status(ctx context.Context, id string) (models.EvaluationStatus, error)
}

// Deps are the services behind the gateway. Evaluations may be nil, which
// disables the /evaluations routes.
type Deps struct {
	Log         *logger.Logger
	Grader      Grader
	Checker     Checker
	Evaluations Evaluations
}

type Server struct {
	cfg         config.Config
	log         *logger.Logger
	grader      Grader
	checker     Checker
	evaluations Evaluations
}

func NewServer(cfg config.Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		cfg:         cfg,
		log:         log.With("component", "api"),
		grader:      deps.Grader,
		checker:     deps.Checker,
		evaluations: deps.Evaluations,
	}
}

func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/tools/grade_assignment", s.handleGrade).Methods(http.MethodPost)
	r.HandleFunc("/tools/generate_feedback", s.handleFeedback).Methods(http.MethodPost)
	r.HandleFunc("/tools/check_plagiarism", s.handleCheckPlagiarism).Methods(http.MethodPost)
	r.HandleFunc("/evaluations", s.handleStartEvaluation).Methods(http.MethodPost)
	r.HandleFunc("/evaluations/{id}", s.handleEvaluationStatus).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrStatus(w, http.StatusNotFound, "validation", "GF-VAL-4004", "Requested resource was not found.")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErrStatus(w, http.StatusMethodNotAllowed, "validation", "GF-VAL-4005", "This endpoint does not support the requested method.")
	})
	return withCORS(withRequestID(s.withAccessLog(r)))
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.Banner{
		Message: "Welcome to the Assignment Grader API",
		Status:  "running",
		Version: config.Version,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req models.GradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	creds := credentials.Resolve(req.Credentials(), s.cfg.Credentials)
	grade, err := s.grader.Grade(r.Context(), s.gradingRequest(req), creds)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.GradeResponse{Grade: grade})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.GradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	creds := credentials.Resolve(req.Credentials(), s.cfg.Credentials)
	fb, err := s.grader.Feedback(r.Context(), s.gradingRequest(req), creds)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.FeedbackResponse{Feedback: fb})
}

func (s *Server) handleCheckPlagiarism(w http.ResponseWriter, r *http.Request) {
	var req models.PlagiarismRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	creds := credentials.Resolve(req.Credentials(), s.cfg.Credentials)
	matches, err := s.checker.Check(r.Context(), plagiarism.Request{Text: req.Text, Threshold: req.Threshold()}, creds)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.PlagiarismResponse{Results: matches})
}

func (s *Server) handleStartEvaluation(w http.ResponseWriter, r *http.Request) {
	if s.evaluations == nil {
		s.writeErr(w, r, errEvaluationsDisabled)
		return
	}
	var req models.EvaluationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := validateEvaluation(req); err != nil {
		s.writeErr(w, r, err)
		return
	}
	accepted, err := s.evaluations.Start(r.Context(), workflows.EvaluationInput{
		Text:      strings.TrimSpace(req.Text),
		Rubric:    req.Rubric,
		Model:     req.ModelOr(s.cfg.DefaultModel),
		Threshold: req.Threshold(),
	})
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, accepted)
}

func (s *Server) handleEvaluationStatus(w http.ResponseWriter, r *http.Request) {
	if s.evaluations == nil {
		s.writeErr(w, r, errEvaluationsDisabled)
		return
	}
	status, err := s.evaluations.Status(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) gradingRequest(req models.GradeRequest) grading.Request {
	return grading.Request{Text: req.Text, Rubric: req.Rubric, Model: req.ModelOr(s.cfg.DefaultModel)}
}
