package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ideaboard/ideaboard/internal/logging"
	"github.com/ideaboard/ideaboard/internal/notification"
	"github.com/ideaboard/ideaboard/internal/reset"
	"github.com/ideaboard/ideaboard/internal/session"
	"github.com/ideaboard/ideaboard/internal/token"
	"github.com/ideaboard/ideaboard/internal/user"
)

type handlerFixture struct {
	app      *fiber.App
	users    user.Repository
	sessions session.Repository
	resets   reset.Repository
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	users := user.NewMemoryRepository()
	sessions := session.NewMemoryRepository()
	resets := reset.NewMemoryRepository()
	codec := token.NewCodec("test-secret", time.Hour)
	logger := logging.Discard()

	resetSvc := reset.NewService(resets, users, notification.NewLoggerNotifier(logger), time.Hour)
	svc := NewService(users, sessions, codec, time.Hour)
	h := NewHandler(svc, resetSvc, logger, false, time.Hour)

	app := fiber.New()
	grp := app.Group("/auth")
	grp.Post("/register", h.Register)
	grp.Post("/login", h.Login)
	grp.Post("/logout", h.Logout)
	grp.Post("/forgot-password", h.ForgotPassword)
	grp.Post("/reset-password", h.ResetPassword)

	return &handlerFixture{app: app, users: users, sessions: sessions, resets: resets}
}

func (f *handlerFixture) post(t *testing.T, path, body string, header ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeSession(t *testing.T, resp *http.Response) sessionResponse {
	t.Helper()
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	var out sessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode session response: %v (%s)", err, body)
	}
	return out
}

func authCookie(resp *http.Response) *http.Cookie {
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	return nil
}

const registerBody = `{"email":"ada@example.com","firstName":"Ada","lastName":"Lovelace","password":"correct horse"}`

func TestRegisterSetsCookieAndSession(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.post(t, "/auth/register", registerBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	ck := authCookie(resp)
	if ck == nil {
		t.Fatal("expected auth cookie on register")
	}
	if !ck.HttpOnly {
		t.Fatal("auth cookie must be HttpOnly")
	}
	if ck.Secure {
		t.Fatal("auth cookie must not be Secure outside production")
	}

	out := decodeSession(t, resp)
	if out.Token == "" || out.Token != ck.Value {
		t.Fatalf("body token %q must match cookie %q", out.Token, ck.Value)
	}
	if out.User.Email != "ada@example.com" {
		t.Fatalf("unexpected identity: %+v", out.User)
	}

	if _, err := f.sessions.FindByToken(context.Background(), out.Token); err != nil {
		t.Fatalf("session must be persisted: %v", err)
	}
}

func TestRegisterDuplicateEmailHTTP(t *testing.T) {
	f := newHandlerFixture(t)

	if resp := f.post(t, "/auth/register", registerBody); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register: got %d", resp.StatusCode)
	}
	resp := f.post(t, "/auth/register", registerBody)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", resp.StatusCode)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newHandlerFixture(t)

	cases := []string{
		`{"firstName":"A","lastName":"B","password":"longenough"}`,
		`{"email":"not-an-email","firstName":"A","lastName":"B","password":"longenough"}`,
		`{"email":"a@b.com","firstName":"A","lastName":"B","password":"short"}`,
		`{"email":"a@b.com","lastName":"B","password":"longenough"}`,
	}
	for _, body := range cases {
		resp := f.post(t, "/auth/register", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestLoginRejectionsAreUniform(t *testing.T) {
	f := newHandlerFixture(t)
	f.post(t, "/auth/register", registerBody)

	cases := []string{
		`{"email":"ada@example.com","password":"wrong password"}`,
		`{"email":"nobody@example.com","password":"correct horse"}`,
	}
	var messages []string
	for _, body := range cases {
		resp := f.post(t, "/auth/login", body)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("body %s: expected 401, got %d", body, resp.StatusCode)
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		messages = append(messages, string(raw))
	}
	if messages[0] != messages[1] {
		t.Fatalf("wrong-password and unknown-email responses must be identical: %q vs %q", messages[0], messages[1])
	}
}

func TestLoginSuccess(t *testing.T) {
	f := newHandlerFixture(t)
	f.post(t, "/auth/register", registerBody)

	resp := f.post(t, "/auth/login", `{"email":"ada@example.com","password":"correct horse"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if authCookie(resp) == nil {
		t.Fatal("expected auth cookie on login")
	}
	out := decodeSession(t, resp)
	if _, err := f.sessions.FindByToken(context.Background(), out.Token); err != nil {
		t.Fatalf("login must open a session: %v", err)
	}
}

func TestLogoutRevokesSessionAndClearsCookie(t *testing.T) {
	f := newHandlerFixture(t)
	reg := f.post(t, "/auth/register", registerBody)
	out := decodeSession(t, reg)

	resp := f.post(t, "/auth/logout", ``, fiber.HeaderAuthorization, "Bearer "+out.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	ck := authCookie(resp)
	if ck == nil || ck.Value != "" || !ck.Expires.Before(time.Now()) {
		t.Fatalf("logout must clear the auth cookie, got %+v", ck)
	}
	if _, err := f.sessions.FindByToken(context.Background(), out.Token); err == nil {
		t.Fatal("session must be revoked after logout")
	}

	// Logout without any credential still succeeds.
	if resp := f.post(t, "/auth/logout", ``); resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous logout: expected 200, got %d", resp.StatusCode)
	}
}

func TestForgotPasswordIsEnumerationSafe(t *testing.T) {
	f := newHandlerFixture(t)
	f.post(t, "/auth/register", registerBody)

	var bodies []string
	for _, payload := range []string{
		`{"email":"ada@example.com"}`,
		`{"email":"nobody@example.com"}`,
	} {
		resp := f.post(t, "/auth/forgot-password", payload)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		bodies = append(bodies, string(raw))
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("known and unknown email responses must match: %q vs %q", bodies[0], bodies[1])
	}
}

func TestResetPasswordFlow(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	reg := f.post(t, "/auth/register", registerBody)
	out := decodeSession(t, reg)
	f.post(t, "/auth/forgot-password", `{"email":"ada@example.com"}`)

	stored, err := f.resets.FindByUser(ctx, out.User.ID)
	if err != nil {
		t.Fatalf("reset token must be stored: %v", err)
	}

	resp := f.post(t, "/auth/reset-password", `{"token":"`+stored.Token+`","newPassword":"a brand new pass"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Replay fails, the token is single-use.
	resp = f.post(t, "/auth/reset-password", `{"token":"`+stored.Token+`","newPassword":"another pass"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("replay: expected 400, got %d", resp.StatusCode)
	}

	// The old password no longer works, the new one does.
	if resp := f.post(t, "/auth/login", `{"email":"ada@example.com","password":"correct horse"}`); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", resp.StatusCode)
	}
	if resp := f.post(t, "/auth/login", `{"email":"ada@example.com","password":"a brand new pass"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("new password: expected 200, got %d", resp.StatusCode)
	}
}

func TestResetPasswordUnknownToken(t *testing.T) {
	f := newHandlerFixture(t)

	resp := f.post(t, "/auth/reset-password", `{"token":"deadbeef","newPassword":"a brand new pass"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
