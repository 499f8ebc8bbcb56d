package events

import (
	"encoding/json"
	"testing"

	"github.com/chatguard/bot-app/internal/phrase"
)

func TestEventSubject(t *testing.T) {
	full := EnforcementEvent{Banned: true, Deleted: true}
	if got := full.Subject(); got != SubjectEnforced {
		t.Errorf("Subject() = %q, want %q", got, SubjectEnforced)
	}

	for _, partial := range []EnforcementEvent{
		{Banned: true, Deleted: false},
		{Banned: false, Deleted: true},
		{},
	} {
		if got := partial.Subject(); got != SubjectPartial {
			t.Errorf("Subject() for %+v = %q, want %q", partial, got, SubjectPartial)
		}
	}
}

func TestEventJSON(t *testing.T) {
	event := EnforcementEvent{
		EventID:   "5f2b9c3e-0000-0000-0000-000000000000",
		ChatID:    -100,
		UserID:    42,
		Username:  "spammer",
		MessageID: 7,
		Category:  phrase.CategoryImage,
		Phrase:    "cheap watches",
		Banned:    true,
		Deleted:   false,
		Ts:        1700000000,
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded EnforcementEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != event {
		t.Errorf("round trip = %+v, want %+v", decoded, event)
	}
	if decoded.Handled() {
		t.Error("Handled() = true for a partial event")
	}
}
