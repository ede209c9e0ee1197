package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"go-checker-bot/store"
)

func newTestVbvStore(t *testing.T) *store.VbvStore {
	t.Helper()
	vbv, err := store.LoadVbvStore(filepath.Join(t.TempDir(), "vbvbin.txt"), zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	return vbv
}

func TestVbvHandlerEnrolledBinRejected(t *testing.T) {
	handler := NewVbvHandler(newTestVbvStore(t), newTestBinStore(t), zap.NewNop().Sugar())

	// 447697 ships in the seed table as enrolled
	outcome, err := handler.Handle(context.Background(), testCommandContext("/vbv 4476971234567890|12|27|123"))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	final := outcome.Plan.Frames[len(outcome.Plan.Frames)-1].Text
	if !strings.Contains(final, "REJECTED") {
		t.Errorf("final %q should reject an enrolled BIN", final)
	}
	if !strings.Contains(final, "3D Secure Required") {
		t.Errorf("final %q should carry the stored response", final)
	}
	if outcome.Effect.DeductCredits != 1 || !outcome.Effect.TouchCooldown {
		t.Errorf("effect = %+v, want 1 credit and a cooldown touch", outcome.Effect)
	}
}

func TestVbvHandlerNonEnrolledBinPasses(t *testing.T) {
	handler := NewVbvHandler(newTestVbvStore(t), newTestBinStore(t), zap.NewNop().Sugar())

	// 424242 ships in the seed table as not enrolled
	outcome, err := handler.Handle(context.Background(), testCommandContext("/vbv 4242424242424242|12|27|123"))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	final := outcome.Plan.Frames[len(outcome.Plan.Frames)-1].Text
	if !strings.Contains(final, "PASSED") {
		t.Errorf("final %q should pass a non-enrolled BIN", final)
	}
}

func TestVbvHandlerUnknownBinPasses(t *testing.T) {
	handler := NewVbvHandler(newTestVbvStore(t), newTestBinStore(t), zap.NewNop().Sugar())

	outcome, err := handler.Handle(context.Background(), testCommandContext("/vbv 5555555555554444|12|27|123"))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	final := outcome.Plan.Frames[len(outcome.Plan.Frames)-1].Text
	if !strings.Contains(final, "PASSED") {
		t.Errorf("final %q should pass a BIN with no record", final)
	}
	if !strings.Contains(final, "No 3D Secure record") {
		t.Errorf("final %q should say no record was found", final)
	}
}

func TestVbvHandlerUnsupportedNetwork(t *testing.T) {
	handler := NewVbvHandler(newTestVbvStore(t), newTestBinStore(t), zap.NewNop().Sugar())

	outcome, err := handler.Handle(context.Background(), testCommandContext("/vbv 371449635398431|12|27|1234"))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if !strings.Contains(outcome.Plan.Frames[0].Text, "not supported") {
		t.Errorf("reply %q should mark the network unsupported", outcome.Plan.Frames[0].Text)
	}
	if !outcome.Effect.IsZero() {
		t.Error("unsupported cards must not be charged")
	}
}

func TestVbvHandlerMissingCard(t *testing.T) {
	handler := NewVbvHandler(newTestVbvStore(t), newTestBinStore(t), zap.NewNop().Sugar())

	outcome, err := handler.Handle(context.Background(), testCommandContext("/vbv"))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !strings.Contains(outcome.Plan.Frames[0].Text, "Usage") {
		t.Errorf("reply %q should show usage", outcome.Plan.Frames[0].Text)
	}
	if !outcome.Effect.IsZero() {
		t.Error("a missing card must not be charged")
	}
}

func TestVbvHandlerUsesFreshlyAddedToken(t *testing.T) {
	vbv := newTestVbvStore(t)
	logger := zap.NewNop().Sugar()
	addHandler := NewAddVbvHandler(vbv, logger)
	vbvHandler := NewVbvHandler(vbv, newTestBinStore(t), logger)

	addCtx := testCommandContext("/addvbv 555555|3D TRUE ❌|Issuer enrollment active")
	addCtx.Account = &store.Account{ID: "2", Role: store.RoleOwner}
	if _, err := addHandler.Handle(context.Background(), addCtx); err != nil {
		t.Fatalf("addvbv failed: %v", err)
	}

	outcome, err := vbvHandler.Handle(context.Background(), testCommandContext("/vbv 5555555555554444|12|27|123"))
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	final := outcome.Plan.Frames[len(outcome.Plan.Frames)-1].Text
	if !strings.Contains(final, "REJECTED") || !strings.Contains(final, "Issuer enrollment active") {
		t.Errorf("final %q should use the freshly stored token", final)
	}
}
