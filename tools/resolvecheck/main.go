// Command resolvecheck resolves a single reference from the command line,
// useful for verifying instance health and normalization without running
// the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"vidgate/config"
	"vidgate/services/resolver"
	"vidgate/services/upstream"
)

func main() {
	var (
		configPath = flag.String("config", "cache/settings.json", "Path to backend settings.json")
		probeFirst = flag.Bool("probe", false, "Run one probe cycle before resolving")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: resolvecheck [flags] <url-or-id>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	reference := flag.Arg(0)

	mgr := config.NewManager(*configPath)
	settings, err := mgr.Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	registry := upstream.NewRegistry(settings.UpstreamCandidates())
	alive := upstream.NewAliveSet()

	ctx := context.Background()
	if *probeFirst {
		prober := upstream.NewProber(registry, alive,
			time.Duration(settings.Upstream.ProbeTimeoutSec)*time.Second, time.Minute)
		prober.RunCycle(ctx)
	}

	svc := resolver.NewService(registry, alive,
		time.Duration(settings.Upstream.ResolveTimeoutSec)*time.Second)

	meta, attempts, err := svc.ResolveDetailed(ctx, reference)
	if err != nil {
		log.Fatalf("resolve failed after %d attempt error(s): %v", len(attempts), err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}
