package report

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/N3v3l/Farmware-take-picture/internal/config"
)

func TestHTTPReporterSend(t *testing.T) {
	var (
		gotPath    string
		gotAuth    string
		gotContent string
		gotBody    celeryMessage
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContent = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode payload: %v", err)
		}
	}))
	defer srv.Close()

	r := &HTTPReporter{
		BaseURL: srv.URL + "/api/v1/",
		Token:   "secret-token",
		RunID:   uuid.New(),
		Client:  srv.Client(),
	}
	r.Send("Problem getting image.", Error)

	if gotPath != "/api/v1/celery_script" {
		t.Errorf("path = %q, want /api/v1/celery_script", gotPath)
	}
	if gotAuth != "bearer secret-token" {
		t.Errorf("authorization = %q, want %q", gotAuth, "bearer secret-token")
	}
	if gotContent != "application/json" {
		t.Errorf("content-type = %q, want application/json", gotContent)
	}
	if gotBody.Kind != "send_message" {
		t.Errorf("kind = %q, want send_message", gotBody.Kind)
	}
	if gotBody.Args.Message != "[take-photo] Problem getting image." {
		t.Errorf("message = %q, want prefixed text", gotBody.Args.Message)
	}
	if gotBody.Args.MessageType != "error" {
		t.Errorf("message_type = %q, want error", gotBody.Args.MessageType)
	}
}

func TestHTTPReporterDropsDeliveryFailure(t *testing.T) {
	// Nothing is listening here; Send must swallow the error.
	r := &HTTPReporter{
		BaseURL: "http://127.0.0.1:1/",
		Token:   "secret-token",
		RunID:   uuid.New(),
	}
	r.Send("hello", Info)
}

func TestConsoleReporterSend(t *testing.T) {
	var buf bytes.Buffer
	r := &ConsoleReporter{Out: &buf}

	r.Send("No camera detected at video0.", Error)

	if got := buf.String(); got != "No camera detected at video0.\n" {
		t.Errorf("output = %q", got)
	}
}

func TestNewFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantHTTP bool
	}{
		{
			name:     "configured endpoint",
			cfg:      config.Config{FarmwareURL: "http://farmbot/", OSVersion: "6.4.1"},
			wantHTTP: true,
		},
		{
			name:     "unconfigured falls back to console",
			cfg:      config.Config{},
			wantHTTP: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFromEnv(tt.cfg, uuid.New())
			httpReporter, isHTTP := r.(*HTTPReporter)
			if isHTTP != tt.wantHTTP {
				t.Fatalf("NewFromEnv() = %T, wantHTTP %v", r, tt.wantHTTP)
			}
			if isHTTP && httpReporter.BaseURL != "http://farmbot/api/v1/" {
				t.Errorf("BaseURL = %q, want versioned base", httpReporter.BaseURL)
			}
		})
	}
}
