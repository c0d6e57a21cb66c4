package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
)

func main() {
	var (
		portFlag  = flag.Int("port", 0, "TCP port to listen on (0 for stdio)")
		levelFlag = flag.String("log-level", "info", "Log level; logs go to stderr")
	)
	flag.Parse()

	// zap's production config writes to stderr, which keeps stdout free for
	// the stdio transport.
	if err := observability.InitLogger(*levelFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer observability.SyncLogger()

	if err := calculator.InitMetrics(); err != nil {
		observability.Logger.Fatal("init metrics", zap.Error(err))
	}

	svc := calculator.NewService(calculator.NewStore(1))
	st, err := svc.CreateSession(context.Background())
	if err != nil {
		observability.Logger.Fatal("create session", zap.Error(err))
	}

	mcpServer := server.NewMCPServer(
		"keypad-calculator",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)

	k := &keypad{svc: svc, sessionID: st.SessionID}
	k.register(mcpServer)

	if *portFlag == 0 {
		if err := server.ServeStdio(mcpServer); err != nil {
			observability.Logger.Fatal("stdio server failed", zap.Error(err))
		}
		return
	}

	addr := fmt.Sprintf(":%d", *portFlag)
	observability.Logger.Info("mcp server started", zap.String("addr", addr))
	if err := server.NewStreamableHTTPServer(mcpServer).Start(addr); err != nil {
		observability.Logger.Fatal("http server failed", zap.Error(err))
	}
}
