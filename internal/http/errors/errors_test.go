package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithDetail_DoesNotMutateBase(t *testing.T) {
	derived := ErrBadRequest.WithDetail("phone_number is required")
	if derived.Detail != "phone_number is required" {
		t.Fatalf("detail = %q", derived.Detail)
	}
	if ErrBadRequest.Detail != "" {
		t.Fatal("base error mutated")
	}
	if derived.Code != ErrBadRequest.Code || derived.HTTPStatus != ErrBadRequest.HTTPStatus {
		t.Fatal("copy lost base fields")
	}
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrInvalidState)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Code != "INVALID_STATE" || out.Message != "Invalid state." {
		t.Fatalf("body = %+v", out)
	}
}

func TestWriteError_PlainErrorBecomes500(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("something internal leaked"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Body.String(); len(got) > 0 && (json.Valid(rec.Body.Bytes()) == false) {
		t.Fatalf("body not json: %q", got)
	}
}

func TestFromError_KeepsCause(t *testing.T) {
	cause := errors.New("boom")
	appErr := FromError(cause)
	if !errors.Is(appErr, cause) {
		t.Fatal("cause not preserved through Unwrap")
	}
}
