// naomi-discover advertises (or browses for) a naomi-sim UDP endpoint
// on the local network via mDNS/DNS-SD, the same
// github.com/brutella/dnssd mechanism the teacher uses to advertise
// its KISS-over-TCP service, repurposed here for discovering message
// transport peers without typing in IP addresses and ports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/brutella/dnssd"
	"github.com/spf13/pflag"

	"github.com/jopadan/libnaomi-go/internal/klog"
)

const serviceType = "_naomi-msg._udp"

func main() {
	var (
		mode = pflag.StringP("mode", "m", "browse", "\"advertise\" a local service or \"browse\" for one")
		name = pflag.StringP("name", "n", "naomi-sim", "Service instance name (advertise mode)")
		port = pflag.IntP("port", "p", 7355, "UDP port to advertise (advertise mode)")
		help = pflag.Bool("help", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - discover or advertise naomi-sim UDP transport peers.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	log := klog.New(os.Stderr, "info")
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "advertise":
		advertise(ctx, log, *name, *port)
	case "browse":
		browse(ctx, log)
	default:
		log.Error("unknown mode", "mode", *mode)
		os.Exit(1)
	}
}

func advertise(ctx context.Context, log klog.Logger, name string, port int) {
	cfg := dnssd.Config{ //nolint:exhaustruct
		Name: name,
		Type: serviceType,
		Port: port,
	}

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		log.Error("failed to create service", "err", err)
		os.Exit(1)
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		log.Error("failed to create responder", "err", err)
		os.Exit(1)
	}

	if _, err := rp.Add(sv); err != nil {
		log.Error("failed to add service", "err", err)
		os.Exit(1)
	}

	log.Info("advertising", "name", name, "type", serviceType, "port", port)
	if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
		log.Error("responder error", "err", err)
		os.Exit(1)
	}
}

func browse(ctx context.Context, log klog.Logger) {
	addFn := func(e dnssd.BrowseEntry) {
		log.Info("peer found", "name", e.Name, "host", e.IPs, "port", e.Port)
	}
	rmvFn := func(e dnssd.BrowseEntry) {
		log.Info("peer gone", "name", e.Name)
	}

	log.Info("browsing", "type", serviceType)
	if err := dnssd.LookupType(ctx, serviceType, addFn, rmvFn); err != nil && ctx.Err() == nil {
		log.Error("browse error", "err", err)
		os.Exit(1)
	}
}
