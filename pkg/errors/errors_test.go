package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeEmptyCart, http.StatusBadRequest},
		{CodeCouponInactive, http.StatusBadRequest},
		{CodeCouponBelowMinimum, http.StatusBadRequest},
		{CodeProductNotFound, http.StatusNotFound},
		{CodeCouponNotFound, http.StatusNotFound},
		{CodeOrderNotFound, http.StatusNotFound},
		{CodeInsufficientStock, http.StatusConflict},
		{CodeCouponExhausted, http.StatusConflict},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Errorf("MetadataFor(%s).HTTPStatus = %d, want %d", tc.code, got, tc.status)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("SOMETHING_ELSE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("boom")
	err := Wrap(CodeDependency, cause, "gateway call")
	if err.Unwrap() != cause {
		t.Fatal("expected wrapped cause")
	}
	if !HasCode(err, CodeDependency) {
		t.Fatal("expected dependency code")
	}
	if HasCode(err, CodeInternal) {
		t.Fatal("unexpected internal code")
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	t.Parallel()

	inner := New(CodeInsufficientStock, "stock moved")
	wrapped := fmt.Errorf("finalize: %w", inner)
	typed := As(wrapped)
	if typed == nil || typed.Code() != CodeInsufficientStock {
		t.Fatalf("As(%v) = %v", wrapped, typed)
	}
	if As(nil) != nil {
		t.Fatal("As(nil) should be nil")
	}
}
