package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	return body
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name        string
		write       func(w http.ResponseWriter)
		wantStatus  int
		wantSuccess bool
		wantError   string
		wantCode    string
		wantMessage string
	}{
		{
			name:        "success",
			write:       func(w http.ResponseWriter) { Success(w, map[string]string{"a": "b"}) },
			wantStatus:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name:        "notice",
			write:       func(w http.ResponseWriter) { Notice(w, nil, "Esta é a primeira versão.") },
			wantStatus:  http.StatusOK,
			wantSuccess: true,
			wantMessage: "Esta é a primeira versão.",
		},
		{
			name:       "error with code",
			write:      func(w http.ResponseWriter) { ErrorWithCode(w, http.StatusUnauthorized, "auth/wrong-password", "Senha incorreta") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "Senha incorreta",
			wantCode:   "auth/wrong-password",
		},
		{
			name:       "bad gateway",
			write:      func(w http.ResponseWriter) { BadGateway(w, "store down") },
			wantStatus: http.StatusBadGateway,
			wantError:  "store down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			body := decode(t, rec)
			if body.Success != tt.wantSuccess || body.Error != tt.wantError ||
				body.Code != tt.wantCode || body.Message != tt.wantMessage {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
