package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bindlehq/bindle/pkg/artifact"
	"github.com/bindlehq/bindle/pkg/commits"
	"github.com/bindlehq/bindle/pkg/config"
	"github.com/bindlehq/bindle/pkg/observability"
	"github.com/bindlehq/bindle/pkg/requirement"
	"github.com/bindlehq/bindle/pkg/resolver"
)

type fakeResolver struct {
	resolution *resolver.Resolution
	err        error

	workbooks []string
	primary   string
	fallback  string
}

func (f *fakeResolver) Resolve(ctx context.Context, workbooks []string, primaryBranch, fallbackBranch string) (*resolver.Resolution, error) {
	f.workbooks = workbooks
	f.primary = primaryBranch
	f.fallback = fallbackBranch
	if f.err != nil {
		return nil, f.err
	}
	return f.resolution, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(res Resolver) *Server {
	branches := config.BranchesConfig{Primary: "main", Fallback: "master"}
	return NewServer(res, config.ServerConfig{}, branches, quietLogger(), nil)
}

func postResolve(t *testing.T, s *Server, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/resolve", bytes.NewReader(raw))
	s.ServeHTTP(rec, req)
	return rec
}

func TestResolveEndpoint(t *testing.T) {
	fake := &fakeResolver{
		resolution: &resolver.Resolution{
			Internal: []requirement.Requirement{
				{Name: "index-foo", Version: "0.0.0+main.abc1234"},
			},
			External: []requirement.Requirement{
				{Name: "numpy"},
			},
		},
	}
	s := newTestServer(fake)

	rec := postResolve(t, s, ResolveRequest{Workbooks: []string{"acme/foo"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var got resolver.Resolution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, fake.resolution.Internal, got.Internal)
	assert.Equal(t, fake.resolution.External, got.External)

	assert.Equal(t, []string{"acme/foo"}, fake.workbooks)
	assert.Equal(t, "main", fake.primary, "should default to configured primary branch")
	assert.Equal(t, "master", fake.fallback, "should default to configured fallback branch")
}

func TestResolveEndpointBranchOverride(t *testing.T) {
	fake := &fakeResolver{resolution: &resolver.Resolution{}}
	s := newTestServer(fake)

	rec := postResolve(t, s, ResolveRequest{
		Workbooks:      []string{"acme/foo"},
		PrimaryBranch:  "feature/x",
		FallbackBranch: "develop",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "feature/x", fake.primary)
	assert.Equal(t, "develop", fake.fallback)
}

func TestResolveEndpointValidation(t *testing.T) {
	s := newTestServer(&fakeResolver{})

	rec := postResolve(t, s, ResolveRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/resolve", bytes.NewReader([]byte("not json")))
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveEndpointErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad workbook", commits.NewBadWorkbookError("nodash"), http.StatusBadRequest},
		{"no branch", commits.NewNoBranchFoundError("acme/foo"), http.StatusUnprocessableEntity},
		{"missing artifact", artifact.NewArtifactNotFoundError("index-foo==0.0.0+main.abc1234", "/tmp/index/index_foo.whl"), http.StatusUnprocessableEntity},
		{"remote query", commits.NewRemoteQueryError(401, "Bad credentials"), http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeResolver{err: tt.err})
			rec := postResolve(t, s, ResolveRequest{Workbooks: []string{"acme/foo"}})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(&fakeResolver{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyz(t *testing.T) {
	s := newTestServer(&fakeResolver{})
	s.RegisterReadyCheck("index", func() error { return nil })

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	s.RegisterReadyCheck("token", func() error { return errors.New("no credential configured") })
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no credential configured")
}

func TestMetricsEndpoint(t *testing.T) {
	metrics := observability.NewMetrics(nil)
	branches := config.BranchesConfig{Primary: "main", Fallback: "master"}
	s := NewServer(&fakeResolver{resolution: &resolver.Resolution{}}, config.ServerConfig{}, branches, quietLogger(), metrics)

	rec := postResolve(t, s, ResolveRequest{Workbooks: []string{"acme/foo"}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bindle_http_requests_total")
}