// Command geoenginectl is a REPL driving the Engine API end to end
// (spec §6), grounded on the teacher's cmd/sentra REPL shape: a bufio
// line scanner dispatching to one handler per verb.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"geoengine/internal/command"
	"geoengine/internal/config"
	"geoengine/internal/dag"
	"geoengine/internal/factory"
	"geoengine/internal/introspect"
	"geoengine/internal/plot"
	"geoengine/internal/solver"
	"geoengine/internal/view"
)

func main() {
	debugAddr := flag.String("debug-addr", "", "if set, serve a live introspection WebSocket at this address (e.g. :8089)")
	width := flag.Float64("width", 800, "viewport width in pixels")
	height := flag.Float64("height", 600, "viewport height in pixels")
	flag.Parse()

	cfg := config.New(config.WithViewport(*width, *height))
	pool := dag.NewPool()
	solver.RegisterAll(pool)

	v := view.Default(cfg.ViewportWidth, cfg.ViewportHeight)
	collector := plot.NewCollector(cfg)
	mgr := command.NewManager(pool, collector, v, cfg)
	eng := factory.New(pool, mgr, v)

	if *debugAddr != "" {
		srv := introspect.NewServer()
		mgr.OnCommit = func(visited []dag.NodeID) {
			srv.Broadcast(introspect.BuildSnapshot(pool.CurrentFrame(), pool, visited, collector.Buffer))
		}
		go func() {
			if err := srv.ListenAndServe(*debugAddr); err != nil {
				fmt.Fprintf(os.Stderr, "introspection server stopped: %v\n", err)
			}
		}()
		fmt.Printf("introspection server listening on %s/debug\n", *debugAddr)
	}

	fmt.Println("geoenginectl | type 'help' for commands, 'exit' to quit")
	runREPL(eng)
}

func runREPL(eng *factory.Engine) {
	ctx := context.Background()
	scanner := bufio.NewScanner(os.Stdin)
	ids := map[string]dag.NodeID{}

	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if err := dispatch(ctx, eng, ids, line); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}
