package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write roster file: %v", err)
	}
	return path
}

func TestLoadValidRoster(t *testing.T) {
	path := writeRoster(t, `
origin_number: "+15550100"
num_rounds: 3
wait_between_rounds: 10s
contacts:
  - phone: "+15550101"
    voice_script_ref: "https://example.com/flood.xml"
    sms_body: "Flood warning. Evacuate now."
  - phone: "+15550102"
    voice_script_ref: "https://example.com/flood.xml"
`)

	roster, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if roster.OriginNumber != "+15550100" {
		t.Fatalf("origin number: %s", roster.OriginNumber)
	}
	if roster.NumRounds != 3 {
		t.Fatalf("num rounds: %d", roster.NumRounds)
	}
	if roster.WaitBetween != 10*time.Second {
		t.Fatalf("wait between: %s", roster.WaitBetween)
	}
	if len(roster.Contacts) != 2 {
		t.Fatalf("contacts: %d", len(roster.Contacts))
	}
	if roster.Contacts[0].SmsBody != "Flood warning. Evacuate now." {
		t.Fatalf("sms body: %q", roster.Contacts[0].SmsBody)
	}
	if roster.Contacts[1].SmsBody != "" {
		t.Fatalf("second contact should have no sms body, got %q", roster.Contacts[1].SmsBody)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeRoster(t, `
origin_number: "+15550100"
contacts:
  - phone: "+15550101"
    voice_script_ref: "https://example.com/alert.xml"
`)

	roster, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if roster.NumRounds != 5 {
		t.Fatalf("expected default 5 rounds, got %d", roster.NumRounds)
	}
	if roster.WaitBetween != 40*time.Second {
		t.Fatalf("expected default 40s wait, got %s", roster.WaitBetween)
	}
}

func TestLoadInvalidRosters(t *testing.T) {
	cases := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name: "missing origin",
			content: `
contacts:
  - phone: "+15550101"
`,
			errPart: "origin_number is required",
		},
		{
			name: "empty contacts",
			content: `
origin_number: "+15550100"
contacts: []
`,
			errPart: "contacts list is empty",
		},
		{
			name: "missing phone",
			content: `
origin_number: "+15550100"
contacts:
  - voice_script_ref: "https://example.com/alert.xml"
`,
			errPart: "contacts[0]: phone is required",
		},
		{
			name: "duplicate phone",
			content: `
origin_number: "+15550100"
contacts:
  - phone: "+15550101"
  - phone: "+15550101"
`,
			errPart: "duplicate phone",
		},
		{
			name: "bad wait duration",
			content: `
origin_number: "+15550100"
wait_between_rounds: soon
contacts:
  - phone: "+15550101"
`,
			errPart: "wait_between_rounds",
		},
		{
			name: "negative rounds",
			content: `
origin_number: "+15550100"
num_rounds: -1
contacts:
  - phone: "+15550101"
`,
			errPart: "num_rounds must be at least 1",
		},
		{
			name:    "malformed yaml",
			content: "contacts: [",
			errPart: "parse",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRoster(t, tc.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Fatalf("error %q does not mention %q", err, tc.errPart)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "roster: read") {
		t.Fatalf("unexpected error: %v", err)
	}
}
