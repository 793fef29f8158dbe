// Command coolsave-fakeapi serves an in-memory Cool Save backend for local
// demos of the client.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/coolsave/internal/fakeapi"
	"github.com/idilsaglam/coolsave/internal/logging"
	"github.com/idilsaglam/coolsave/internal/ui"
)

func main() {
	addr := flag.String("addr", ":3000", "listen address")
	data := flag.String("data", "", "JSON file to persist the inventory in (empty keeps it in memory)")
	level := flag.String("log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	log := logging.New(os.Stderr, *level)
	opts := []fakeapi.Option{fakeapi.WithLogger(log)}
	if *data != "" {
		opts = append(opts, fakeapi.WithFile(*data))
	}
	b, err := fakeapi.New(opts...)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		_ = b.Shutdown()
	}()

	log.Info("listening", "addr", *addr)
	if err := b.Listen(*addr); err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}
}
