package camera

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/N3v3l/Farmware-take-picture/pkg/report"
)

// recordingReporter captures reported events for assertions.
type recordingReporter struct {
	messages []string
	kinds    []report.MessageType
}

func (r *recordingReporter) Send(message string, kind report.MessageType) {
	r.messages = append(r.messages, message)
	r.kinds = append(r.kinds, kind)
}

func (r *recordingReporter) count(message string) int {
	n := 0
	for _, m := range r.messages {
		if m == message {
			n++
		}
	}
	return n
}

func fakeDevDir(t *testing.T, nodes ...int) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range nodes {
		path := filepath.Join(dir, fmt.Sprintf("video%d", n))
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name            string
		nodes           []int
		wantPort        int
		wantNotDetected int
	}{
		{name: "primary present", nodes: []int{0}, wantPort: 0},
		{name: "both present", nodes: []int{0, 1}, wantPort: 0},
		{name: "secondary only", nodes: []int{1}, wantPort: 1},
		{name: "none present", nodes: nil, wantPort: 1, wantNotDetected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingReporter{}
			cam := &USBCamera{
				Settings: DefaultSettings(),
				Reporter: rec,
				devDir:   fakeDevDir(t, tt.nodes...),
			}

			if got := cam.probe(); got != tt.wantPort {
				t.Errorf("probe() = %d, want %d", got, tt.wantPort)
			}
			if got := rec.count("USB Camera not detected."); got != tt.wantNotDetected {
				t.Errorf("not-detected reports = %d, want %d", got, tt.wantNotDetected)
			}
		})
	}
}

func TestOverridesDefaultsStaySilent(t *testing.T) {
	o := overrides(DefaultSettings())

	// Resolution is always pushed; nothing gets reported.
	if len(o) != 2 {
		t.Fatalf("len(overrides) = %d, want 2", len(o))
	}
	for _, ov := range o {
		if ov.message != "" {
			t.Errorf("sentinel write reported %q", ov.message)
		}
	}
}

func TestOverridesReportsChanges(t *testing.T) {
	s := DefaultSettings()
	s.Width = 1280
	s.Brightness = 25.5
	s.Gain = 1

	var messages []string
	for _, ov := range overrides(s) {
		if ov.message != "" {
			messages = append(messages, ov.message)
		}
	}

	want := []string{"Resolution width:1280", "set brightness", "set gain"}
	if len(messages) != len(want) {
		t.Fatalf("reported = %v, want %v", messages, want)
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Errorf("reported[%d] = %q, want %q", i, messages[i], want[i])
		}
	}
}
