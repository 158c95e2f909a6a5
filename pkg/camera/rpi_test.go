package camera

import (
	"path/filepath"
	"testing"
)

func TestRPiCameraCapture(t *testing.T) {
	out := filepath.Join(t.TempDir(), "1.jpg")

	tests := []struct {
		name        string
		binary      string
		wantErr     bool
		wantMessage string
	}{
		{
			name:   "utility exits zero",
			binary: "true",
		},
		{
			name:        "utility exits non-zero",
			binary:      "false",
			wantErr:     true,
			wantMessage: "Problem getting image.",
		},
		{
			name:        "utility missing",
			binary:      "/nonexistent/raspistill",
			wantErr:     true,
			wantMessage: "Raspberry Pi Camera not detected.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingReporter{}
			cam := &RPiCamera{Reporter: rec, Binary: tt.binary}

			err := cam.Capture(out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Capture() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantMessage == "" {
				if len(rec.messages) != 0 {
					t.Errorf("unexpected reports: %v", rec.messages)
				}
				return
			}
			if got := rec.count(tt.wantMessage); got != 1 {
				t.Errorf("%q reported %d times, want 1 (all: %v)", tt.wantMessage, got, rec.messages)
			}
		})
	}
}
