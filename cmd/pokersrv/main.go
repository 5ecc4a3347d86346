package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/decred/slog"
	"github.com/kon14/pokerd/pkg/server"
)

func main() {
	var (
		host       string
		port       int
		debugLevel string
	)
	flag.StringVar(&host, "host", "127.0.0.1", "Host to listen on")
	flag.IntVar(&port, "port", 0, "Port to listen on (0 = use POKERD_PORT or the default)")
	flag.StringVar(&debugLevel, "debuglevel", "info", "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	backend := slog.NewBackend(os.Stderr)
	log := backend.Logger("SRV")
	level, ok := slog.LevelFromString(debugLevel)
	if !ok {
		level = slog.LevelInfo
	}
	log.SetLevel(level)

	if port == 0 {
		port = 55100
		if env := os.Getenv("POKERD_PORT"); env != "" {
			if v, err := strconv.Atoi(env); err == nil {
				port = v
			}
		}
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to listen: %v\n", err)
		os.Exit(1)
	}
	defer lis.Close()

	log.Infof("listening on %s", lis.Addr())

	pokerSrv := server.NewServer(log)
	_ = pokerSrv

	// Wire framing/codec is out of scope for this module; the facade
	// above is ready to be dispatched to by a transport of the
	// operator's choosing.
	select {}
}
