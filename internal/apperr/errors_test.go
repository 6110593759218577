package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestIsMatchesSentinelThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load post 7: %w", NotFound("post"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Fatalf("unexpected unavailable match")
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Unavailable("list posts", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause in chain")
	}
	if GetCode(err) != CodeUnavailable {
		t.Fatalf("unexpected code: %s", GetCode(err))
	}
	if err.Error() != "list posts unavailable: dial tcp: refused" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestGetCodeForeignError(t *testing.T) {
	if GetCode(errors.New("boom")) != CodeUnknown {
		t.Fatalf("expected unknown code")
	}
	if !IsCode(ErrInvalidCredentials, CodeInvalidCredentials) {
		t.Fatalf("expected invalid credentials code")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeUnavailable:        fiber.StatusServiceUnavailable,
		CodeFeedUnavailable:    fiber.StatusServiceUnavailable,
		CodeNotFound:           fiber.StatusNotFound,
		CodeUnauthenticated:    fiber.StatusUnauthorized,
		CodeInvalidCredentials: fiber.StatusUnauthorized,
		CodeInvalidInput:       fiber.StatusBadRequest,
		CodeDuplicateNickname:  fiber.StatusConflict,
		CodeUnknown:            fiber.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s: expected %d, got %d", code, want, got)
		}
	}
}

func TestFiber(t *testing.T) {
	fe := Fiber(fmt.Errorf("wrapped: %w", InvalidInput("description required")))
	if fe.Code != fiber.StatusBadRequest || fe.Message != "description required" {
		t.Fatalf("unexpected fiber error: %d %s", fe.Code, fe.Message)
	}
	fe = Fiber(errors.New("boom"))
	if fe.Code != fiber.StatusInternalServerError {
		t.Fatalf("expected 500")
	}
}
