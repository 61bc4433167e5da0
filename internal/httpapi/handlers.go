package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nguyentantai21042004/subtitle-flow/internal/apperr"
	"github.com/nguyentantai21042004/subtitle-flow/internal/blobstore"
	"github.com/nguyentantai21042004/subtitle-flow/internal/coordinator"
	"github.com/nguyentantai21042004/subtitle-flow/internal/dispatch"
	"github.com/nguyentantai21042004/subtitle-flow/internal/processor"
	"github.com/nguyentantai21042004/subtitle-flow/internal/summarizer"
)

type keyRef struct {
	Key string `json:"key"`
}

type extractRequest struct {
	Key    string `json:"key"`
	Bucket string `json:"bucket,omitempty"`
	UID    string `json:"uid,omitempty"`
}

type burnRequest struct {
	Video  keyRef `json:"video"`
	SRT    keyRef `json:"srt"`
	Bucket string `json:"bucket,omitempty"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var job dispatch.Job
	if !s.decode(w, r, &job) {
		return
	}
	resp, err := s.coord.Start(r.Context(), job)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, resp.StatusCode, resp.Body)
}

func (s *Server) handlePoll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req coordinator.PollRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.coord.Poll(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, resp.StatusCode, resp.Body)
}

func (s *Server) handleExtractAudio(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.proc.ExtractAudio(r.Context(), processor.AudioRequest{
		Bucket: req.Bucket,
		Key:    req.Key,
		UID:    req.UID,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBurnIn(w http.ResponseWriter, r *http.Request) {
	var req burnRequest
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.proc.BurnInSubtitles(r.Context(), processor.BurnRequest{
		Bucket:   req.Bucket,
		VideoKey: req.Video.Key,
		SRTKey:   req.SRT.Key,
	})
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if s.summ == nil {
		s.writeError(w, http.StatusServiceUnavailable, summarizer.ErrDisabled.Error())
		return
	}
	var req summarizer.Request
	if !s.decode(w, r, &req) {
		return
	}
	out, err := s.summ.Summarize(r.Context(), req)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads the body into v. The body may be a JSON object or a JSON
// string holding one.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	if err := dispatch.UnmarshalBody(data, v); err != nil {
		s.logger.Warn(r.Context(), "Rejecting malformed body: %v", err)
		s.writeError(w, http.StatusBadRequest, "body must be a JSON object")
		return false
	}
	return true
}

func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "%s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		s.logger.Warn(r.Context(), "%s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	s.writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case apperr.IsInput(err):
		return http.StatusBadRequest
	case blobstore.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, dispatch.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(context.Background(), "Failed to encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
