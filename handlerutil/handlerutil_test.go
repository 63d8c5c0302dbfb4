package handlerutil_test

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"go.senan.xyz/musicarchive/handlerutil"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) handlerutil.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := handlerutil.Chain(mark("a"), mark("b"), handlerutil.If(false, mark("skipped")), mark("c"))(handlerutil.Message("ok"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Equal(t, "ok\n", rr.Body.String())
}

func TestRecover(t *testing.T) {
	t.Parallel()

	h := handlerutil.Chain(handlerutil.Log, handlerutil.Recover)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("oh no")
	}))
	rr := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestBasicCORS(t *testing.T) {
	t.Parallel()

	var called bool
	h := handlerutil.BasicCORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/", nil))
	require.False(t, called)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}

// not parallel, it swaps the log output
func TestLogLine(t *testing.T) {
	var buff bytes.Buffer
	log.SetOutput(&buff)
	t.Cleanup(func() { log.SetOutput(io.Discard) })

	h := handlerutil.Log(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write(bytes.Repeat([]byte("x"), 2000))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/album", nil))

	line := buff.String()
	require.Contains(t, line, "\u001b[43;1m 418 \u001b[0m")
	require.Contains(t, line, "POST /admin/album 2.0 kB in ")

	buff.Reset()
	handlerutil.Log(handlerutil.Message("OK")).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Contains(t, buff.String(), " 200 ")
	require.Contains(t, buff.String(), "GET /ping 3 B in ")
}
