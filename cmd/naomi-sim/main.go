// naomi-sim is a host-side harness for the thread scheduler and
// message layer: it boots a Kernel, spins up a handful of worker
// threads at different priorities, and exercises the fragmentation
// layer over a real transport so the two halves of the module can be
// exercised together outside actual Naomi hardware.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/jopadan/libnaomi-go/boardconfig"
	"github.com/jopadan/libnaomi-go/internal/klog"
	"github.com/jopadan/libnaomi-go/kernel"
	"github.com/jopadan/libnaomi-go/message"
	"github.com/jopadan/libnaomi-go/transport/ptytransport"
	"github.com/jopadan/libnaomi-go/transport/udptransport"
)

func main() {
	var (
		boardConfigPath = pflag.StringP("board-config", "b", "", "YAML board configuration file (defaults to the built-in sizing)")
		transportKind   = pflag.StringP("transport", "t", "pty", "Packet transport to exercise: \"pty\" or \"udp\"")
		udpListen       = pflag.String("udp-listen", "127.0.0.1:0", "Local address for -transport udp")
		udpPeer         = pflag.String("udp-peer", "", "Peer address for -transport udp (required)")
		workerCount     = pflag.IntP("workers", "w", 3, "Number of worker threads to create")
		logLevel        = pflag.String("log-level", "info", "Log level: debug, info, warn, error")
		help            = pflag.Bool("help", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - scheduler and message-layer simulation harness.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	log := klog.New(os.Stderr, *logLevel)

	cfg := boardconfig.Default()
	if *boardConfigPath != "" {
		loaded, err := boardconfig.Load(*boardConfigPath)
		if err != nil {
			log.Error("failed to load board configuration", "path", *boardConfigPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	k := kernel.New(cfg, kernel.WithLogger(log))

	for i := 0; i < *workerCount; i++ {
		name := fmt.Sprintf("worker-%d", i)
		id, err := k.CreateThread(name, func(any) any { select {} }, nil)
		if err != nil {
			log.Error("failed to create worker thread", "name", name, "err", err)
			os.Exit(1)
		}
		k.SetPriority(id, i)
		k.StartThread(id)
		log.Info("worker thread started", "name", name, "id", id, "priority", i)
	}

	var transport message.Transport
	switch *transportKind {
	case "pty":
		t, slavePath, err := ptytransport.Open(cfg.MaxPacketLength, cfg.MaxOutstandingPackets)
		if err != nil {
			log.Error("failed to open pty transport", "err", err)
			os.Exit(1)
		}
		defer t.Close()
		log.Info("pty transport ready", "slave", slavePath)
		transport = t
	case "udp":
		if *udpPeer == "" {
			log.Error("-udp-peer is required with -transport udp")
			os.Exit(1)
		}
		t, err := udptransport.Listen(*udpListen, cfg.MaxPacketLength, cfg.MaxOutstandingPackets)
		if err != nil {
			log.Error("failed to open udp transport", "err", err)
			os.Exit(1)
		}
		defer t.Close()
		if err := t.SetPeer(*udpPeer); err != nil {
			log.Error("failed to set udp peer", "err", err)
			os.Exit(1)
		}
		transport = t
	default:
		log.Error("unknown transport", "transport", *transportKind)
		os.Exit(1)
	}

	sender := message.NewSender(cfg)
	payload := []byte("naomi-sim heartbeat")
	if err := sender.Send(transport, 1, payload); err != nil {
		log.Error("heartbeat send failed", "err", err)
		os.Exit(1)
	}
	log.Info("heartbeat message sent", "bytes", len(payload))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		typ, data, err := message.Recv(transport, cfg)
		if err == nil {
			log.Info("message received", "type", typ, "bytes", len(data))
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	log.Info("simulation complete", "idle_id", k.IdleID(), "current", fmt.Sprintf("%p", k.Current()))
}
