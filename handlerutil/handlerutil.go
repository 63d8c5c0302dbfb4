package handlerutil

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

type Middleware func(http.Handler) http.Handler

func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// If applies middleware only when cond is true, eg. request logging behind a flag
func If(cond bool, middleware Middleware) Middleware {
	if !cond {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware
}

// Log prints one line per request with its status, size and duration, eg.
// "response  303  POST /admin/album 0 B in 12ms"
func Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &recordWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		log.Printf("response %s %s %v %s in %v",
			statusToBlock(rw.status()), r.Method, r.URL,
			humanize.Bytes(rw.written), time.Since(start).Round(time.Millisecond))
	})
}

// Recover turns a panicking handler into a 500 and logs the stack
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler { //nolint:errorlint
					panic(rec)
				}
				log.Printf("panic serving %s %v: %v\n%s", r.Method, r.URL, rec, debug.Stack())
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func BasicCORS(next http.Handler) http.Handler {
	allowMethods := strings.Join(
		[]string{http.MethodPost, http.MethodGet, http.MethodOptions},
		", ",
	)
	allowHeaders := strings.Join(
		[]string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding"},
		", ",
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", allowMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func Message(message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, message)
	})
}

// recordWriter notes the status and body size of a response
type recordWriter struct {
	http.ResponseWriter
	code    int
	written uint64
}

func (w *recordWriter) WriteHeader(code int) {
	if w.code == 0 {
		w.code = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.written += uint64(n)
	return n, err
}

func (w *recordWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// status is 200 if the handler never set one, as net/http would send
func (w *recordWriter) status() int {
	if w.code == 0 {
		return http.StatusOK
	}
	return w.code
}

// statusToBlock renders the code on an ansi background by its class
func statusToBlock(code int) string {
	colours := map[int]int{
		5: 41, // red
		4: 43, // orange
		3: 46, // cyan
		2: 42, // green
	}
	bg, ok := colours[code/100]
	if !ok {
		bg = 47 // grey
	}
	return fmt.Sprintf("\u001b[%d;1m %d \u001b[0m", bg, code)
}
