package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bindlehq/bindle/pkg/artifact"
	"github.com/bindlehq/bindle/pkg/commits"
	"github.com/bindlehq/bindle/pkg/httputil"
	"github.com/bindlehq/bindle/pkg/version"
)

// ResolveRequest is the body of a resolution call. Branches default to
// the server's configured pair when omitted.
type ResolveRequest struct {
	Workbooks      []string `json:"workbooks"`
	PrimaryBranch  string   `json:"primary_branch,omitempty"`
	FallbackBranch string   `json:"fallback_branch,omitempty"`
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteValidationError(w, "invalid request body")
		return
	}
	if len(req.Workbooks) == 0 {
		httputil.WriteValidationError(w, "workbooks is required")
		return
	}

	primary := req.PrimaryBranch
	if primary == "" {
		primary = s.branches.Primary
	}
	fallback := req.FallbackBranch
	if fallback == "" {
		fallback = s.branches.Fallback
	}
	if primary == "" {
		httputil.WriteValidationError(w, "primary_branch is required")
		return
	}

	ctx := r.Context()
	if s.cfg.ResolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ResolveTimeout)
		defer cancel()
	}

	resolution, err := s.resolver.Resolve(ctx, req.Workbooks, primary, fallback)
	if err != nil {
		s.writeResolveError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resolution)
}

// writeResolveError maps resolution failures onto HTTP statuses. Caller
// mistakes are 4xx, upstream failures are 502, everything else is 500.
func (s *Server) writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case commits.IsBadWorkbookError(err):
		httputil.WriteError(w, http.StatusBadRequest, err)
	case commits.IsNoBranchFoundError(err),
		version.IsNoCommitFoundError(err),
		artifact.IsArtifactNotFoundError(err),
		artifact.IsMetadataNotFoundError(err):
		httputil.WriteError(w, http.StatusUnprocessableEntity, err)
	case commits.IsRemoteQueryError(err):
		httputil.WriteError(w, http.StatusBadGateway, err)
	default:
		s.log.WithError(err).Error("Resolution failed")
		httputil.WriteInternalError(w, err)
	}
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	failures := make(map[string]string)
	for name, check := range s.checks {
		if err := check(); err != nil {
			failures[name] = err.Error()
		}
	}

	if len(failures) > 0 {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":   "unavailable",
			"failures": failures,
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
