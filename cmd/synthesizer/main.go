// Synthesizer is a diphone concatenative speech synthesizer. It speaks a
// phrase or a text file by joining recorded diphone waveforms, and can run
// as a daemon serving the same engine over HTTP, gRPC and Wyoming.
//
// Usage:
//
//	synthesizer [flags] "phrase to speak"
//	synthesizer --fromfile story.txt --outfile story.wav
//	synthesizer serve --config /path/to/synthesizer.yaml
//
//	@title			Synthesizer API
//	@version		1.0
//	@description	Diphone concatenative speech synthesizer.
//	@BasePath		/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
