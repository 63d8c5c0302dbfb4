// Command musicarchive-mockendpoint serves an in-memory content endpoint for
// local development. Everything is lost on exit
package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"go.senan.xyz/flagconf"

	"go.senan.xyz/musicarchive/contentapi/mockendpoint"
	"go.senan.xyz/musicarchive/handlerutil"
)

func main() {
	confListenAddr := flag.String("listen-addr", "0.0.0.0:4849", "listen address (optional)")
	confHTTPLog := flag.Bool("http-log", true, "http request logging (optional)")
	flag.Parse()
	if err := flagconf.ParseEnv(); err != nil {
		log.Fatalf("error parsing env: %v\n", err)
	}

	handler := handlerutil.Chain(
		handlerutil.If(*confHTTPLog, handlerutil.Log),
		handlerutil.Recover,
	)(mockendpoint.New())

	server := &http.Server{
		Addr:              *confListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("mock content endpoint listening on %s\n", *confListenAddr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("error serving: %v", err)
	}
}
