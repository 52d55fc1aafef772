// Movierec - Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("GenerateRequestID() = %q is not a UUID: %v", id, err)
	}
	if id == GenerateRequestID() {
		t.Error("GenerateRequestID() returned the same ID twice")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}

	ctx = ContextWithRequestID(ctx, "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q, want req-1", got)
	}
}

func TestEnsureRequestID(t *testing.T) {
	ctx, id := EnsureRequestID(context.Background())
	if id == "" {
		t.Fatal("EnsureRequestID() returned empty ID")
	}
	if RequestIDFromContext(ctx) != id {
		t.Error("EnsureRequestID() did not store the ID in the context")
	}

	ctx2, id2 := EnsureRequestID(ctx)
	if id2 != id || ctx2 != ctx {
		t.Error("EnsureRequestID() should keep an existing ID")
	}
}

func TestCtx(t *testing.T) {
	var buf bytes.Buffer
	base := NewTestLogger(&buf)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	l := Ctx(ctx, base)
	l.Info().Msg("served")

	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("output missing request_id: %s", buf.String())
	}

	buf.Reset()
	l = Ctx(context.Background(), base)
	l.Info().Msg("plain")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("output should not contain request_id: %s", buf.String())
	}
}
