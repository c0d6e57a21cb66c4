package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gosuri/uilive"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
	"go-chi-calculator/internal/keymap"
	"go-chi-calculator/internal/observability"
)

func main() {
	levelFlag := flag.String("log-level", "warn", "Log level; logs go to stderr")
	flag.Parse()

	if err := observability.InitLogger(*levelFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer observability.SyncLogger()

	writer := uilive.New()
	writer.RefreshInterval = 50 * time.Millisecond
	writer.Start()
	defer writer.Stop()

	fmt.Println("Type keys and press return. 'enter' is =, 'alt+<key>' reaches M+, M-, MR, MC, x² and √. 'quit' exits.")
	run(os.Stdin, writer, engine.New())
}

// run feeds each input line through the key map into e and repaints the
// display after every line.
func run(in io.Reader, writer *uilive.Writer, e *engine.Engine) {
	paint(writer, e.Snapshot(), "")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" || line == "exit" {
			return
		}

		status := press(e, line)
		paint(writer, e.Snapshot(), status)
	}
	if err := scanner.Err(); err != nil {
		observability.Logger.Error("read input", zap.Error(err))
	}
}

// press applies one line of keyboard input and returns a status message for
// rejected or unbound keys.
func press(e *engine.Engine, line string) string {
	var rejected int
	for _, ev := range keymap.ParseKeys(line) {
		cmd, ok := keymap.Lookup(ev)
		if !ok {
			observability.Logger.Debug("unbound key", zap.String("key", ev.Key))
			return fmt.Sprintf("%q is not a calculator key", ev.Key)
		}
		if !e.Apply(cmd) {
			rejected++
		}
	}
	switch {
	case rejected > 0 && !e.Valid():
		return fmt.Sprintf("%d key(s) ignored, press C to clear", rejected)
	case rejected > 0:
		return fmt.Sprintf("%d key(s) ignored", rejected)
	}
	return ""
}

func paint(writer *uilive.Writer, snap engine.Snapshot, status string) {
	fmt.Fprint(writer, render(snap, status))
	writer.Flush()
}

func render(snap engine.Snapshot, status string) string {
	var b strings.Builder

	memory := " "
	if snap.MemoryActive {
		memory = "M"
	}
	fmt.Fprintf(&b, "%s %24s\n", memory, snap.History)
	fmt.Fprintf(&b, "  %24s\n", snap.Display)
	if status != "" {
		fmt.Fprintf(&b, "  %s\n", status)
	}
	return b.String()
}
