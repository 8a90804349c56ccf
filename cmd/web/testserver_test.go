package main

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/gaslight/internal/e2etest"
	"github.com/stretchr/testify/require"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "GASLIGHT_ADDR":
		return "localhost:0", true
	case "GASLIGHT_SQLITE_URL":
		return ":memory:", true
	default:
		return "", false
	}
}

type testServer struct {
	client *e2etest.Client
}

// startTestServer starts the test server and waits for it to be ready. The server is stopped when the test
// finishes.
func startTestServer(t *testing.T, w io.Writer, lookupEnv func(string) (string, bool)) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	server, err := e2etest.StartServer(ctx, w, lookupEnv, run)
	require.NoError(t, err)
	return &testServer{client: server.Client()}
}

// CSRF fetches the CSRF token that the server expects on state-changing requests.
func (s *testServer) CSRF(t *testing.T) {
	t.Helper()
	require.NoError(t, s.client.FetchCSRF(context.Background()))
}

// Do sends a JSON request, asserts the response status and decodes the response body into out when given.
func (s *testServer) Do(t *testing.T, method, urlPath string, in any, wantStatus int, out any) {
	t.Helper()
	_, err := s.client.Do(context.Background(), method, urlPath, in, out, wantStatus)
	require.NoError(t, err)
}
