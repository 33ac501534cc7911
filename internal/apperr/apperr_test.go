package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindConstraintViolation, http.StatusConflict},
		{KindValidation, http.StatusBadRequest},
		{KindStorageUnavailable, http.StatusServiceUnavailable},
		{KindInternal, http.StatusInternalServerError},
		{Kind("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.kind.HTTPStatus(); got != tc.want {
			t.Fatalf("%s.HTTPStatus() = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestIsMatchesByKindThroughWrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("update application 7: %w", New(KindNotFound, "application 7 not found"))
	if !errors.Is(err, NotFound) {
		t.Fatal("expected wrapped error to match NotFound")
	}
	if errors.Is(err, ConstraintViolation) {
		t.Fatal("did not expect wrapped error to match ConstraintViolation")
	}
	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("KindOf = %s, want %s", got, KindNotFound)
	}
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	t.Parallel()

	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("KindOf = %s, want %s", got, KindInternal)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	t.Parallel()

	err := Wrap(KindStorageUnavailable, "list companies", errors.New("database is locked"))
	if got, want := err.Error(), "list companies: database is locked"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, StorageUnavailable) {
		t.Fatal("expected StorageUnavailable match")
	}
}
