package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IdreesAbuEtewy/IntelliGlass-Smart-Solar-Window-System/internal/service"
)

func TestUserIdMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		want     int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "no token", header: "Bearer", want: http.StatusUnauthorized},
		{name: "parse failure", header: "Bearer bad", parseErr: errors.New("expired"), want: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", want: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseID: 7, parseErr: tc.parseErr}
			s := &service.Service{Authorization: auth, Devices: &mockDevices{}}
			r := newTestRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status=%d, want %d body=%s", w.Code, tc.want, w.Body.String())
			}
			if tc.want == http.StatusOK && auth.lastParseToken != "good" {
				t.Fatalf("token not forwarded: %q", auth.lastParseToken)
			}
		})
	}
}
