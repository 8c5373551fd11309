package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"ipms/pkg/controller"
)

func TestClientIPResolver_ClientIP(t *testing.T) {
	resolver, err := controller.NewClientIPResolver([]string{"10.0.0.0/8", "192.0.2.1", " "})
	require.NoError(t, err)

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "untrusted peer ignores headers",
			remoteAddr: "203.0.113.7:1234",
			headers:    map[string]string{"X-Forwarded-For": "1.1.1.1", "X-Real-IP": "2.2.2.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "trusted peer without headers",
			remoteAddr: "10.1.2.3:1234",
			want:       "10.1.2.3",
		},
		{
			name:       "trusted peer uses right-most untrusted hop",
			remoteAddr: "10.1.2.3:1234",
			headers:    map[string]string{"X-Forwarded-For": "6.6.6.6, 198.51.100.9, 10.0.0.5"},
			want:       "198.51.100.9",
		},
		{
			name:       "single trusted proxy by address",
			remoteAddr: "192.0.2.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9"},
			want:       "198.51.100.9",
		},
		{
			name:       "all hops trusted",
			remoteAddr: "10.1.2.3:1234",
			headers:    map[string]string{"X-Forwarded-For": "10.0.0.9, 10.0.0.5"},
			want:       "10.0.0.9",
		},
		{
			name:       "garbage hop stops the walk",
			remoteAddr: "10.1.2.3:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9, not-an-ip, 10.0.0.5"},
			want:       "10.0.0.5",
		},
		{
			name:       "trusted peer with X-Real-IP",
			remoteAddr: "10.1.2.3:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			want:       "198.51.100.9",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			require.Equal(t, tt.want, resolver.ClientIP(req))
		})
	}
}

func TestClientIPResolver_NilTrustsNobody(t *testing.T) {
	var resolver *controller.ClientIPResolver

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	require.Equal(t, "10.1.2.3", resolver.ClientIP(req))
}

func TestNewClientIPResolver_Invalid(t *testing.T) {
	_, err := controller.NewClientIPResolver([]string{"10.0.0.0/33"})
	require.Error(t, err)

	_, err = controller.NewClientIPResolver([]string{"proxy.local"})
	require.Error(t, err)
}
