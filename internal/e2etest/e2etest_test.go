package e2etest_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"

	"github.com/justinas/nosurf"
	"github.com/myrjola/gaslight/internal/e2etest"
	"github.com/stretchr/testify/require"
)

// echoServer serves a CSRF token endpoint and a protected endpoint echoing the JSON it receives.
func echoServer(ctx context.Context, logger *slog.Logger, _ func(string) (string, bool)) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/healthy", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("GET /api/csrf", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"` + nosurf.Token(r) + `"}`))
	})
	mux.HandleFunc("POST /api/echo", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.Copy(w, r.Body)
	})
	csrf := nosurf.New(mux)
	csrf.SetBaseCookie(http.Cookie{Path: "/", Secure: true, HttpOnly: true})

	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: csrf} //nolint:gosec // test server
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String(e2etest.LogAddrKey, listener.Addr().String()))
	_ = srv.Serve(listener)
	return nil
}

func TestClient(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server, err := e2etest.StartServer(ctx, io.Discard, func(string) (string, bool) { return "", false }, echoServer)
	require.NoError(t, err)
	client := server.Client()

	in := map[string]string{"clueId": "wet-footprint"}
	var out map[string]string
	_, err = client.Do(ctx, http.MethodPost, "/api/echo", in, &out, http.StatusCreated)
	require.ErrorIs(t, err, e2etest.ErrUnexpectedStatus, "CSRF token is required")

	require.NoError(t, client.FetchCSRF(ctx))
	_, err = client.Do(ctx, http.MethodPost, "/api/echo", in, &out, http.StatusCreated)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
