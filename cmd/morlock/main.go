package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/engine/console"
	"github.com/corvidchess/corvid/pkg/engine/uci"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Uint("depth", 0, "Ply depth limit (zero if unlimited)")
	hash     = flag.Uint("hash", 16, "Transposition table size in MB")
	noise    = flag.Uint("noise", 0, "Evaluation noise in centipawns (zero if deterministic)")
	contempt = flag.Int("contempt", 25, "Contempt option, in centipawns (stored only; does not affect search or evaluation)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: morlock [options]

corvid is a UCI chess engine using principal variation search.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	root := search.PVS{}
	e := engine.New(ctx, "corvid", "corvidchess", root, engine.WithOptions(engine.Options{
		Depth:    *depth,
		Hash:     *hash,
		Noise:    *noise,
		Contempt: *contempt,
	}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, root, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
