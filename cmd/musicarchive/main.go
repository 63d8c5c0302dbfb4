//nolint:lll,forbidigo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/sentriz/gormstore"
	"go.senan.xyz/flagconf"
	"golang.org/x/sync/errgroup"

	"go.senan.xyz/musicarchive"
	"go.senan.xyz/musicarchive/browse"
	"go.senan.xyz/musicarchive/contentapi"
	"go.senan.xyz/musicarchive/db"
	"go.senan.xyz/musicarchive/server"
	"go.senan.xyz/musicarchive/submit"
)

func main() {
	confListenAddr := flag.String("listen-addr", "0.0.0.0:4848", "listen address (optional)")
	confProxyPrefix := flag.String("proxy-prefix", "", "url path prefix to use if behind proxy. eg '/music' (optional)")
	confDBPath := flag.String("db-path", "musicarchive.db", "path to database (optional)")

	confEndpointURL := flag.String("endpoint-url", "", "url of the content endpoint")
	confEndpointTimeout := flag.Duration("endpoint-timeout", 0, "timeout for each submission, 0 for none (optional)")

	confSubmitLock := flag.String("submit-lock", string(submit.LockShared), "which forms are disabled while one is submitting, 'shared' or 'form' (optional)")
	confSubmitReject := flag.String("submit-reject", string(submit.RejectNotify), "what a rejected submission shows, 'notify' or 'silent' (optional)")

	confCatalogSource := flag.String("catalog-source", string(browse.SourceStatic), "where the public catalog comes from, 'static', 'file', or 'endpoint' (optional)")
	confCatalogPath := flag.String("catalog-path", "", "path to a yaml catalog for the 'file' source (optional)")
	confCatalogRefresh := flag.Duration("catalog-refresh", 5*time.Minute, "how often the 'endpoint' source is refreshed (optional)")

	confHTTPLog := flag.Bool("http-log", true, "http request logging (optional)")
	confDBLog := flag.Bool("db-log", false, "log every database query (optional)")

	confShowVersion := flag.Bool("version", false, "show musicarchive version")
	confConfigPath := flag.String("config-path", "", "path to config (optional)")

	flag.Parse()
	if err := flagconf.ParseEnv(); err != nil {
		log.Fatalf("error parsing env: %v\n", err)
	}
	if *confConfigPath != "" {
		if err := flagconf.ParseConfig(*confConfigPath); err != nil {
			log.Fatalf("error parsing config: %v\n", err)
		}
	}

	if *confShowVersion {
		fmt.Printf("v%s\n", musicarchive.Version)
		os.Exit(0)
	}

	if *confEndpointURL == "" {
		log.Fatalf("please provide a content endpoint url")
	}

	lockScope, err := submit.ParseLockScope(*confSubmitLock)
	if err != nil {
		log.Fatalf("error parsing submit lock: %v", err)
	}
	rejectPolicy, err := submit.ParseRejectPolicy(*confSubmitReject)
	if err != nil {
		log.Fatalf("error parsing submit reject: %v", err)
	}
	sourceType, err := browse.ParseSourceType(*confCatalogSource)
	if err != nil {
		log.Fatalf("error parsing catalog source: %v", err)
	}

	dbc, err := db.New(*confDBPath, db.DefaultOptions())
	if err != nil {
		log.Fatalf("error opening database: %v\n", err)
	}
	defer dbc.Close()
	dbc.LogMode(*confDBLog)

	if err := dbc.Migrate(db.MigrationContext{}); err != nil {
		log.Panicf("error migrating database: %v\n", err)
	}

	proxyPrefixExpr := regexp.MustCompile(`^\/*(.*?)\/*$`)
	*confProxyPrefix = proxyPrefixExpr.ReplaceAllString(*confProxyPrefix, `/$1`)
	if *confProxyPrefix == "/" {
		*confProxyPrefix = ""
	}

	log.Printf("starting musicarchive v%s\n", musicarchive.Version)
	log.Printf("provided config\n")
	flag.VisitAll(func(f *flag.Flag) {
		value := strings.ReplaceAll(f.Value.String(), "\n", "")
		log.Printf("    %-25s %s\n", f.Name, value)
	})

	endpointClient := contentapi.NewClient(*confEndpointURL)

	var catalog browse.Source
	var catalogJob func(context.Context) error
	switch sourceType {
	case browse.SourceFile:
		fileSource, err := browse.NewFileSource(*confCatalogPath)
		if err != nil {
			log.Fatalf("error loading catalog: %v", err)
		}
		catalog, catalogJob = fileSource, fileSource.Watch
	case browse.SourceEndpoint:
		endpointSource := browse.NewEndpointSource(endpointClient, *confCatalogRefresh)
		catalog = endpointSource
		catalogJob = func(ctx context.Context) error {
			return endpointSource.Run(ctx, *confCatalogRefresh)
		}
	default:
		catalog = browse.NewStaticSource(browse.SampleCatalog())
	}

	sessKey, err := dbc.GetSetting(db.SessionKey)
	if err != nil {
		log.Panicf("error getting session key: %v\n", err)
	}
	sessDB := gormstore.New(dbc.DB, []byte(sessKey))
	sessDB.SessionOpts.HttpOnly = true
	sessDB.SessionOpts.SameSite = http.SameSiteLaxMode

	desks := submit.NewRegistry(endpointClient, submit.Options{
		Scope:   lockScope,
		Reject:  rejectPolicy,
		Timeout: *confEndpointTimeout,
	})

	srv, err := server.New(server.Options{
		ListenAddr:  *confListenAddr,
		ProxyPrefix: *confProxyPrefix,
		HTTPLog:     *confHTTPLog,
		Sessions:    sessDB,
		Catalog:     catalog,
		Desks:       desks,
	})
	if err != nil {
		log.Panicf("error creating server: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errgrp, ctx := errgroup.WithContext(ctx)
	errgrp.Go(func() error {
		log.Printf("starting job 'http'\n")
		return srv.Run(ctx)
	})

	errgrp.Go(func() error {
		log.Printf("starting job 'session clean'\n")
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				sessDB.Cleanup()
			}
		}
	})

	errgrp.Go(func() error {
		log.Printf("starting job 'desk janitor'\n")
		return desks.RunJanitor(ctx, 5*time.Minute, 24*time.Hour)
	})

	if catalogJob != nil {
		errgrp.Go(func() error {
			log.Printf("starting job 'catalog %s'\n", sourceType)
			return catalogJob(ctx)
		})
	}

	if err := errgrp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Panicf("error in job: %v", err)
	}
}
