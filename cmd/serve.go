package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/viant/mcp"

	"github.com/scriptling/scriptling-mcp/mcp/injection"
)

// ServeCmd launches an MCP server that exposes the registered tools.  With
// --injection-port a localhost HTTP/websocket surface is started alongside,
// allowing tools and prompts to be added or removed at runtime.
type ServeCmd struct {
	InjectionPort int `long:"injection-port" description:"localhost port for the runtime injection API (0 disables it)"`
}

func (c *ServeCmd) Execute(_ []string) error {
	svc, err := serviceSingleton()
	if err != nil {
		return err
	}

	mcpServer, err := mcp.NewServer(svc.NewHandler, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpSrv := mcpServer.HTTP(ctx, "")
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err.Error() != "http: Server closed" {
			log.Fatalf("http server: %v", err)
		}
	}()
	fmt.Printf("MCP server listening on %s\n", httpSrv.Addr)

	if c.InjectionPort > 0 {
		injector := injection.NewServer(svc, c.InjectionPort)
		go func() {
			if err := injector.Start(ctx); err != nil {
				log.Fatalf("injection server: %v", err)
			}
		}()
		fmt.Printf("injection API listening on %s\n", injector.Addr())
	}

	// Wait for SIGINT/SIGTERM
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	fmt.Println("shutting down…")
	cancel()
	return httpSrv.Close()
}
