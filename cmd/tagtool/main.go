// Command tagtool reads and writes audio tags from the command line.
//
// Usage:
//
//	tagtool read song.flac
//	tagtool read --keys artist,title *.mp3
//	tagtool write song.mp3 --set artist=Alice --set artist=Bob --delete comment
//	tagtool scan ~/Music --output yaml
//	tagtool raw song.m4a
//	tagtool formats
//	tagtool atoms book.m4b
//
// Settings can also come from the environment or a .env file:
// TAGTOOL_LOG_LEVEL, TAGTOOL_LOG_FILE, TAGTOOL_WORKERS, TAGTOOL_OUTPUT and
// TAGTOOL_BACKUP_SUFFIX.
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

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
