// Package report delivers best-effort status messages to the FarmBot
// log endpoint. When no endpoint is configured the messages fall back
// to local standard output.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/N3v3l/Farmware-take-picture/internal/config"
	"github.com/N3v3l/Farmware-take-picture/internal/httpc"
	"github.com/N3v3l/Farmware-take-picture/internal/log"
)

// MessageType is the severity tag the platform attaches to a message.
type MessageType string

const (
	Info    MessageType = "info"
	Success MessageType = "success"
	Warn    MessageType = "warn"
	Error   MessageType = "error"
)

// messagePrefix identifies this tool in the platform's log stream.
const messagePrefix = "[take-photo] "

// Reporter sends a status message. Delivery is best effort: failures
// never surface to the caller.
type Reporter interface {
	Send(message string, kind MessageType)
}

// celeryMessage is the send_message node posted to celery_script.
type celeryMessage struct {
	Kind string     `json:"kind"`
	Args celeryArgs `json:"args"`
}

type celeryArgs struct {
	Message     string `json:"message"`
	MessageType string `json:"message_type"`
}

// HTTPReporter posts messages to the farmware celery_script endpoint
// with bearer-token authorization.
type HTTPReporter struct {
	BaseURL string // already includes the api/v1/ segment when required
	Token   string
	RunID   uuid.UUID

	// Client overrides the shared httpc client in tests.
	Client *http.Client
}

// Send posts one message. POST failures are logged at debug and
// dropped; a capture run never fails because logging did.
func (r *HTTPReporter) Send(message string, kind MessageType) {
	payload, err := json.Marshal(celeryMessage{
		Kind: "send_message",
		Args: celeryArgs{
			Message:     messagePrefix + message,
			MessageType: string(kind),
		},
	})
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, r.BaseURL+"celery_script", bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Authorization", "bearer "+r.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.do(req)
	if err != nil {
		log.Debug("status report dropped", "run_id", r.RunID, "error", err)
		return
	}
	resp.Body.Close()
}

func (r *HTTPReporter) do(req *http.Request) (*http.Response, error) {
	if r.Client != nil {
		return r.Client.Do(req)
	}
	return httpc.Do(req)
}

// ConsoleReporter writes the bare message to standard output. Used
// when no farmware endpoint is configured.
type ConsoleReporter struct {
	// Out overrides os.Stdout in tests.
	Out io.Writer
}

// Send writes the message followed by a newline.
func (r *ConsoleReporter) Send(message string, _ MessageType) {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, message)
}

// NewFromEnv selects the HTTP reporter when a farmware endpoint is
// configured and the console fallback otherwise. runID tags dropped
// deliveries in the local log so separate runs can be told apart.
func NewFromEnv(cfg config.Config, runID uuid.UUID) Reporter {
	if cfg.HasFarmware() {
		return &HTTPReporter{
			BaseURL: cfg.APIBaseURL(),
			Token:   cfg.FarmwareToken,
			RunID:   runID,
		}
	}
	return &ConsoleReporter{}
}
