package enforce

import (
	"context"
	"testing"

	"github.com/chatguard/bot-app/internal/chatio"
	"github.com/chatguard/bot-app/internal/phrase"
)

type fakeActions struct {
	banOK    bool
	deleteOK bool
	banCalls int
	delCalls int
	lastBan  int64
	lastRef  chatio.MessageRef
}

func (f *fakeActions) IsAdministrator(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (f *fakeActions) BanUser(_ context.Context, _ int64, userID int64) bool {
	f.banCalls++
	f.lastBan = userID
	return f.banOK
}

func (f *fakeActions) DeleteMessage(_ context.Context, ref chatio.MessageRef) bool {
	f.delCalls++
	f.lastRef = ref
	return f.deleteOK
}

func testOffense() Offense {
	return Offense{
		Msg: chatio.Message{
			ChatID:    -100,
			UserID:    42,
			Username:  "spammer",
			MessageID: 7,
		},
		Category: phrase.CategoryText,
		Phrase:   "cheap watches",
	}
}

func TestEnforce_BothSucceed(t *testing.T) {
	actions := &fakeActions{banOK: true, deleteOK: true}
	e := NewEnforcer(actions, nil, nil)

	outcome := e.Enforce(context.Background(), testOffense())

	if !outcome.Handled() {
		t.Errorf("outcome = %+v, want fully handled", outcome)
	}
	if actions.banCalls != 1 || actions.delCalls != 1 {
		t.Errorf("ban calls = %d, delete calls = %d, want 1 each", actions.banCalls, actions.delCalls)
	}
	if actions.lastBan != 42 {
		t.Errorf("banned user = %d, want 42", actions.lastBan)
	}
	if actions.lastRef != (chatio.MessageRef{ChatID: -100, MessageID: 7}) {
		t.Errorf("deleted ref = %+v", actions.lastRef)
	}
}

func TestEnforce_BanFailureStillDeletes(t *testing.T) {
	actions := &fakeActions{banOK: false, deleteOK: true}
	e := NewEnforcer(actions, nil, nil)

	outcome := e.Enforce(context.Background(), testOffense())

	if outcome.Handled() {
		t.Error("outcome reported handled despite failed ban")
	}
	if outcome.Banned || !outcome.Deleted {
		t.Errorf("outcome = %+v, want banned=false deleted=true", outcome)
	}
	if actions.delCalls != 1 {
		t.Errorf("delete calls = %d, want 1 (delete must run after failed ban)", actions.delCalls)
	}
}

func TestEnforce_DeleteFailureStillBans(t *testing.T) {
	actions := &fakeActions{banOK: true, deleteOK: false}
	e := NewEnforcer(actions, nil, nil)

	outcome := e.Enforce(context.Background(), testOffense())

	if !outcome.Banned || outcome.Deleted {
		t.Errorf("outcome = %+v, want banned=true deleted=false", outcome)
	}
	if actions.banCalls != 1 || actions.delCalls != 1 {
		t.Errorf("ban calls = %d, delete calls = %d, want 1 each", actions.banCalls, actions.delCalls)
	}
}

func TestEnforce_NilLedgerAndPublisher(t *testing.T) {
	// Redis and NATS are optional; enforcement must work without them.
	actions := &fakeActions{banOK: true, deleteOK: true}
	e := NewEnforcer(actions, nil, nil)

	outcome := e.Enforce(context.Background(), testOffense())
	if !outcome.Handled() {
		t.Errorf("outcome = %+v, want fully handled", outcome)
	}
}
