// Package roster loads dispatch session configuration from YAML files.
package roster

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sereenat7/DISHA-sub001/internal/dispatch"
	"github.com/sereenat7/DISHA-sub001/internal/domain"
)

// Contact declares one recipient entry inside a roster file.
type Contact struct {
	Phone          string `yaml:"phone"`
	VoiceScriptRef string `yaml:"voice_script_ref"`
	SmsBody        string `yaml:"sms_body,omitempty"`
}

// File models a dispatch roster file.
type File struct {
	OriginNumber      string    `yaml:"origin_number"`
	NumRounds         int       `yaml:"num_rounds"`
	WaitBetweenRounds string    `yaml:"wait_between_rounds"` // Go duration string, e.g. "40s"
	Contacts          []Contact `yaml:"contacts"`
}

// Roster is a parsed, validated roster ready for dispatch.
type Roster struct {
	OriginNumber string
	NumRounds    int
	WaitBetween  time.Duration
	Contacts     []domain.Contact
}

// Load reads, parses and validates a roster file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", path, err)
	}

	roster, err := file.compile()
	if err != nil {
		return nil, fmt.Errorf("roster: %s: %w", path, err)
	}
	return roster, nil
}

// compile applies defaults, validates the file, and converts entries into
// domain contacts.
func (f *File) compile() (*Roster, error) {
	numRounds := f.NumRounds
	if numRounds == 0 {
		numRounds = dispatch.DefaultNumRounds
	}
	if numRounds < 1 {
		return nil, fmt.Errorf("num_rounds must be at least 1, got %d", numRounds)
	}

	wait := dispatch.DefaultWaitBetween
	if raw := strings.TrimSpace(f.WaitBetweenRounds); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("wait_between_rounds: %w", err)
		}
		if parsed < 0 {
			return nil, fmt.Errorf("wait_between_rounds must not be negative")
		}
		wait = parsed
	}

	if strings.TrimSpace(f.OriginNumber) == "" {
		return nil, fmt.Errorf("origin_number is required")
	}
	if len(f.Contacts) == 0 {
		return nil, fmt.Errorf("contacts list is empty")
	}

	contacts := make([]domain.Contact, 0, len(f.Contacts))
	seen := make(map[string]bool, len(f.Contacts))
	for i, entry := range f.Contacts {
		phone := strings.TrimSpace(entry.Phone)
		if phone == "" {
			return nil, fmt.Errorf("contacts[%d]: phone is required", i)
		}
		if seen[phone] {
			return nil, fmt.Errorf("contacts[%d]: duplicate phone %s", i, phone)
		}
		seen[phone] = true
		contacts = append(contacts, domain.Contact{
			Phone:          phone,
			VoiceScriptRef: strings.TrimSpace(entry.VoiceScriptRef),
			SmsBody:        entry.SmsBody,
		})
	}

	return &Roster{
		OriginNumber: strings.TrimSpace(f.OriginNumber),
		NumRounds:    numRounds,
		WaitBetween:  wait,
		Contacts:     contacts,
	}, nil
}
