// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Command antennamap renders station antenna layouts as SVG maps.
//
//	antennamap render station.yaml -o map.svg
//	antennamap groups station.yaml
//	antennamap show station.yaml S10A1
//	antennamap serve station.yaml --open

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "antennamap:", err)
		stop()
		os.Exit(1)
	}
}
