package generation_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/listify/listify-api/internal/domain/generation"
	"github.com/listify/listify-api/internal/domain/listing"
	"github.com/listify/listify-api/internal/middleware"
)

func authedRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uuid.New())
	return req.WithContext(ctx)
}

func TestGenerateHandlerChecksCreditsBeforeInput(t *testing.T) {
	svc := generation.NewService(&fakeLedger{balance: 0}, &fakeEnricher{}, &fakeGenerator{}, &fakeRecords{})
	handler := generation.NewHandler(svc)

	// Broke user with a malformed body: the credit gate answers first.
	rec := httptest.NewRecorder()
	handler.Generate(rec, authedRequest(http.MethodPost, "/generate", "{not json"))
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402 before body validation, got %d", rec.Code)
	}
}

func TestGenerateHandlerValidation(t *testing.T) {
	svc := generation.NewService(&fakeLedger{balance: 5}, &fakeEnricher{}, &fakeGenerator{result: sampleResult()}, &fakeRecords{})
	handler := generation.NewHandler(svc)

	rec := httptest.NewRecorder()
	handler.Generate(rec, authedRequest(http.MethodPost, "/generate",
		`{"image_url":"https://x/p.jpg","description":"too short","product_type":"Sticker","target_language":"English"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short description, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.Generate(rec, authedRequest(http.MethodPost, "/generate",
		`{"image_url":"https://x/p.jpg","description":"a perfectly fine product description","product_type":"Hologram","target_language":"English"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown product type, got %d", rec.Code)
	}
}

func TestGenerateHandlerSuccess(t *testing.T) {
	svc := generation.NewService(&fakeLedger{balance: 5}, &fakeEnricher{}, &fakeGenerator{result: sampleResult()}, &fakeRecords{})
	handler := generation.NewHandler(svc)

	rec := httptest.NewRecorder()
	handler.Generate(rec, authedRequest(http.MethodPost, "/generate",
		`{"image_url":"https://x/p.jpg","description":"a perfectly fine product description","product_type":"Digital Download","target_language":"English"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateHandlerModelFailure(t *testing.T) {
	svc := generation.NewService(&fakeLedger{balance: 5}, &fakeEnricher{}, &fakeGenerator{err: listing.ErrGenerationFailed}, &fakeRecords{})
	handler := generation.NewHandler(svc)

	rec := httptest.NewRecorder()
	handler.Generate(rec, authedRequest(http.MethodPost, "/generate",
		`{"image_url":"https://x/p.jpg","description":"a perfectly fine product description","product_type":"Digital Download","target_language":"English"}`))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "GENERATION_FAILED") {
		t.Errorf("expected GENERATION_FAILED code in body: %s", rec.Body.String())
	}
}

func TestGenerateHandlerUnauthenticated(t *testing.T) {
	svc := generation.NewService(&fakeLedger{balance: 5}, &fakeEnricher{}, &fakeGenerator{}, &fakeRecords{})
	handler := generation.NewHandler(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader("{}"))
	handler.Generate(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
