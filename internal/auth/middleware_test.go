package auth

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/myhome/myhome-service/pkg/util/errorutil"
)

var testSecret = []byte("gate-test-secret")

func newGateApp(t *testing.T, cfg GateConfig, now func() time.Time) *fiber.App {
	t.Helper()

	gate := NewGate(cfg, NewJWTCodec(testSecret), nil)
	if now != nil {
		gate.now = now
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Use(gate.Handle)
	app.Get("/whoami", func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.SendString("anonymous")
		}
		ctxPrincipal, ok := PrincipalFrom(c.UserContext())
		if !ok || ctxPrincipal.Subject != principal.Subject {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(principal.Subject)
	})
	app.Get("/protected", RequireAuthenticated(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func mustToken(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	token, err := NewJWTCodec(testSecret).Encode(subject, exp)
	require.NoError(t, err)
	return token
}

func call(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGate_Decisions(t *testing.T) {
	cfg := GateConfig{HeaderName: "Authorization", HeaderPrefix: "Bearer "}
	app := newGateApp(t, cfg, nil)

	valid := mustToken(t, "u1", time.Now().Add(time.Hour))
	expired := mustToken(t, "u1", time.Now().Add(-time.Minute))
	emptySubject := mustToken(t, "", time.Now().Add(time.Hour))
	foreign, err := NewJWTCodec([]byte("other")).Encode("u1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "missing header", headers: nil, want: "anonymous"},
		{name: "basic scheme", headers: map[string]string{"Authorization": "Basic xyz"}, want: "anonymous"},
		{name: "prefix is case sensitive", headers: map[string]string{"Authorization": "bearer " + valid}, want: "anonymous"},
		{name: "garbage token", headers: map[string]string{"Authorization": "Bearer not-a-token"}, want: "anonymous"},
		{name: "foreign secret", headers: map[string]string{"Authorization": "Bearer " + foreign}, want: "anonymous"},
		{name: "expired", headers: map[string]string{"Authorization": "Bearer " + expired}, want: "anonymous"},
		{name: "empty subject", headers: map[string]string{"Authorization": "Bearer " + emptySubject}, want: "anonymous"},
		{name: "prefix only", headers: map[string]string{"Authorization": "Bearer "}, want: "anonymous"},
		{name: "valid", headers: map[string]string{"Authorization": "Bearer " + valid}, want: "u1"},
		{name: "valid with padding", headers: map[string]string{"Authorization": "Bearer   " + valid + " "}, want: "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := call(t, app, "/whoami", tt.headers)
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.want, body)
		})
	}
}

func TestGate_ConfigurableHeader(t *testing.T) {
	app := newGateApp(t, GateConfig{HeaderName: "X-Auth-Token", HeaderPrefix: "Token "}, nil)
	token := mustToken(t, "u2", time.Now().Add(time.Hour))

	_, body := call(t, app, "/whoami", map[string]string{"X-Auth-Token": "Token " + token})
	assert.Equal(t, "u2", body)

	_, body = call(t, app, "/whoami", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, "anonymous", body)
}

func TestGate_UsesClockForExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	token := mustToken(t, "u1", exp)
	headers := map[string]string{"Authorization": "Bearer " + token}

	before := newGateApp(t, GateConfig{HeaderName: "Authorization", HeaderPrefix: "Bearer "}, func() time.Time {
		return exp.Add(-time.Minute)
	})
	_, body := call(t, before, "/whoami", headers)
	assert.Equal(t, "u1", body)

	after := newGateApp(t, GateConfig{HeaderName: "Authorization", HeaderPrefix: "Bearer "}, func() time.Time {
		return exp.Add(time.Minute)
	})
	_, body = call(t, after, "/whoami", headers)
	assert.Equal(t, "anonymous", body)
}

func TestRequireAuthenticated(t *testing.T) {
	app := newGateApp(t, GateConfig{HeaderName: "Authorization", HeaderPrefix: "Bearer "}, nil)

	status, _ := call(t, app, "/protected", map[string]string{"Authorization": "Bearer broken"})
	assert.Equal(t, http.StatusUnauthorized, status)

	token := mustToken(t, "u1", time.Now().Add(time.Hour))
	status, body := call(t, app, "/protected", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body)
}

func TestGate_Concurrent(t *testing.T) {
	app := newGateApp(t, GateConfig{HeaderName: "Authorization", HeaderPrefix: "Bearer "}, nil)

	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	tokens := make([]string, workers)
	for i := range tokens {
		if i%2 == 0 {
			tokens[i] = mustToken(t, fmt.Sprintf("user-%d", i), time.Now().Add(time.Hour))
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			subject := "anonymous"
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tokens[i] != "" {
				subject = fmt.Sprintf("user-%d", i)
				req.Header.Set("Authorization", "Bearer "+tokens[i])
			}
			resp, err := app.Test(req)
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if string(body) != subject {
				errs <- fmt.Errorf("worker %d: got %q, want %q", i, body, subject)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
