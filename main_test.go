package main

import (
	"encoding/json"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchantassistant/config"
	"merchantassistant/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		CORSOrigins:     "*",
		RateLimitMax:    2,
		RateLimitWindow: time.Minute,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	app := newServer(testConfig(), logger.Discard())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/merchant/m-1/invoices", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, body["error"])
}

func TestPanicIsRecovered(t *testing.T) {
	app := newServer(testConfig(), logger.Discard())
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	app := newServer(testConfig(), logger.Discard())
	app.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/ping", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/api/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	app := newServer(testConfig(), logger.Discard())
	app.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/ping", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
}

func TestServeReturnsListenError(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	app := newServer(testConfig(), logger.Discard())
	stop := make(chan os.Signal)

	done := make(chan error, 1)
	go func() { done <- serve(app, taken.Addr().String(), stop, time.Second) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), taken.Addr().String())
	case <-time.After(5 * time.Second):
		t.Fatal("serve kept running after Listen failed")
	}
}

func TestServeStopsOnSignal(t *testing.T) {
	app := newServer(testConfig(), logger.Discard())
	stop := make(chan os.Signal, 1)

	done := make(chan error, 1)
	go func() { done <- serve(app, "127.0.0.1:0", stop, time.Second) }()

	time.Sleep(100 * time.Millisecond)
	stop <- os.Interrupt

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after stop")
	}
}
