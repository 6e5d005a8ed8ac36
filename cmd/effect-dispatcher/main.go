// effect-dispatcher runs the side-effect outbox dispatcher as its own
// process, for deployments that keep delivery out of the API instances
// (set EFFECT_DISPATCHER_DISABLED=true on the API).
//
// Usage:
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/effect-dispatcher
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bitbucket.org/voltride/fieldops_backend/config"
	"bitbucket.org/voltride/fieldops_backend/workflow"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8081"

func main() {
	port := os.Getenv("DISPATCHER_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Health endpoint so the runtime can probe the worker.
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		_ = srv.ListenAndServe()
	}()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()

	dispatcher := workflow.NewEffectDispatcher(db, logger,
		&workflow.LogPushSink{Logger: logger},
		&workflow.LogEmailSink{Logger: logger})

	logger.WithFields(logrus.Fields{
		"field":         "effect-dispatcher",
		"dispatcher_id": dispatcher.DispatcherID,
	}).Info("effect dispatcher started")

	dispatcherCtx, cancel := context.WithCancel(context.Background())
	go dispatcher.Run(dispatcherCtx)

	<-sigCtx.Done()
	cancel()
	_ = srv.Shutdown(context.Background())
}
