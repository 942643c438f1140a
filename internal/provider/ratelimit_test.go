package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"policyqa/internal/provider/mocks"
)

func TestRateLimited_Unlimited(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGenerator(ctrl)

	if got := RateLimited(g, 0, 1); got != Generator(g) {
		t.Errorf("RateLimited() with zero rate should return the generator unchanged")
	}
	if got := RateLimited(nil, 60, 1); got != nil {
		t.Errorf("RateLimited(nil) = %v, want nil", got)
	}
}

func TestRateLimited_KeepsName(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGenerator(ctrl)
	g.EXPECT().Name().Return("gemini")

	if got := RateLimited(g, 30, 1).Name(); got != "gemini" {
		t.Errorf("Name() = %q, want gemini", got)
	}
}

func TestRateLimited_WaitIsBoundedByContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGenerator(ctrl)
	g.EXPECT().Generate(gomock.Any(), "first").Return("1", nil)

	// One call per minute: the first call takes the only token.
	limited := RateLimited(g, 1, 1)

	if out, err := limited.Generate(context.Background(), "first"); err != nil || out != "1" {
		t.Fatalf("Generate() = %q, %v, want 1, nil", out, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := limited.Generate(ctx, "second")
	if err == nil {
		t.Fatal("Generate() expected rate limit error, got nil")
	}
}

func TestAdapter_RateLimitedProviderFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockGenerator(ctrl)
	backup := mocks.NewMockGenerator(ctrl)

	primary.EXPECT().Name().Return("primary").AnyTimes()
	backup.EXPECT().Name().Return("backup").AnyTimes()
	primary.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("first answer", nil)
	backup.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("backup answer", nil)

	adapter := NewAdapter(30*time.Millisecond, RateLimited(primary, 1, 1), backup)

	first := adapter.Synthesize(context.Background(), "q", "passage")
	if first.Provider != "primary" {
		t.Fatalf("first Synthesize() provider = %q, want primary", first.Provider)
	}

	second := adapter.Synthesize(context.Background(), "q", "passage")
	if second.Provider != "backup" || second.Text != "backup answer" {
		t.Errorf("second Synthesize() = %+v, want backup answer", second)
	}
}

func TestRateLimited_PropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGenerator(ctrl)
	boom := errors.New("boom")
	g.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", boom)

	_, err := RateLimited(g, 600, 2).Generate(context.Background(), "p")
	if !errors.Is(err, boom) {
		t.Errorf("Generate() error = %v, want %v", err, boom)
	}
}
