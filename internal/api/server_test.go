package api_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ipms/internal/api"
	"ipms/internal/api/handler/v1handler"
	mockcontact "ipms/internal/contact/mock"
	"ipms/pkg/controller"
	"ipms/pkg/domain"
	"ipms/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

type testServer struct {
	svc      *mockcontact.MockService
	registry *prometheus.Registry
	handler  http.Handler
}

func newTestServer(t *testing.T, limiter *controller.IPRateLimiter) testServer {
	t.Helper()

	svc := mockcontact.NewMockService(gomock.NewController(t))
	landing := &domain.Content{}
	landing.Hero.Title = "Integrated Planning and Management Solutions"
	registry := prometheus.NewRegistry()

	handler, err := api.NewHandler(api.Deps{
		Deps:     v1handler.Deps{Contact: svc, Content: landing},
		Registry: registry,
		Limiter:  limiter,
	}, api.Options{
		HandlerOptions: v1handler.Options{MaxBodyBytes: 1024},
		RequestTimeout: time.Second,
		MetricsPath:    "/metrics",
		AllowedOrigins: []string{"https://ipms.example"},
		SubmitRate:     10,
		SubmitBurst:    10,
	})
	require.NoError(t, err)

	return testServer{svc: svc, registry: registry, handler: handler}
}

func (s testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(controller.RequestIDHeader))
}

func TestServer_SpecsAndDocs(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/specs/v1.yaml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "openapi:")
	require.Contains(t, rec.Body.String(), "/v1/submissions")

	rec = s.do(http.MethodGet, "/v1/docs/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "IPMS Contact Service")
}

func TestServer_Content(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/v1/content", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Integrated Planning and Management Solutions")
}

func TestServer_SubmitRoutes(t *testing.T) {
	for _, target := range []string{"/v1/submissions", "/api/contact"} {
		t.Run(target, func(t *testing.T) {
			s := newTestServer(t, nil)
			id := domain.SubmissionID(uuid.New())
			s.svc.EXPECT().Submit(gomock.Any(), domain.Submission{
				Name: "Ada", Email: "ada@example.com", Message: "hello",
			}).Return(&domain.Submission{
				ID: id, Name: "Ada", Email: "ada@example.com", Message: "hello",
			}, nil)

			rec := s.do(http.MethodPost, target, `{"name":"Ada","email":"ada@example.com","message":"hello"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			require.Contains(t, rec.Body.String(), id.String())
		})
	}
}

func TestServer_SubmitRateLimited(t *testing.T) {
	s := newTestServer(t, controller.NewIPRateLimiter(0.001, 1))
	s.svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(&domain.Submission{}, nil).Times(1)

	body := `{"name":"Ada","email":"ada@example.com","message":"hello"}`
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/contact", body).Code)

	rec := s.do(http.MethodPost, "/v1/submissions", body)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// reads are not limited
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/v1/content", "").Code)
}

func TestServer_SubmitRateLimitIgnoresForwardedFor(t *testing.T) {
	s := newTestServer(t, controller.NewIPRateLimiter(0.001, 1))
	s.svc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(&domain.Submission{}, nil).Times(1)

	body := `{"name":"Ada","email":"ada@example.com","message":"hello"}`
	codes := make([]int, 0, 3)
	for _, xff := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	require.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestServer_ListRequiresToken(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/v1/submissions", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestServer_CORS(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
	req.Header.Set("Origin", "https://ipms.example")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://ipms.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_MetricsByRouteName(t *testing.T) {
	s := newTestServer(t, nil)

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "").Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "").Code)

	rec := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{code="200",method="GET",route="health"} 2`)
}

func TestServer_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/nope", "").Code)
}

func TestNewServer(t *testing.T) {
	server, err := api.NewServer(api.Deps{}, api.Options{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		SecHandlerOptions: &v1handler.SecHandlerOptions{PublicKey: ""},
	})
	require.NoError(t, err)
	require.Equal(t, ":0", server.Addr)
	require.Equal(t, time.Second, server.ReadHeaderTimeout)

	_, err = api.NewServer(api.Deps{}, api.Options{
		SecHandlerOptions: &v1handler.SecHandlerOptions{PublicKey: "not a key"},
	})
	require.Error(t, err)

	_, err = api.NewServer(api.Deps{}, api.Options{TrustedProxies: []string{"not-a-cidr/8"}})
	require.ErrorContains(t, err, "trusted proxies")
}

func TestServer_Pprof(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(http.MethodGet, "/debug/pprof/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "goroutine")
}
