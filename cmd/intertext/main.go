// Command intertext searches two .tess texts for intertextual parallels.
//
// Usage:
//
//	intertext search -source vergil.aeneid -target lucan.pharsalia [flags]
//	intertext batch  -source vergil.aeneid [flags] target...
//	intertext export -db intertext.db -id <match set id> [flags]
//	intertext list   -db intertext.db [-id <match set id> -page N -per-page M]
//
// Texts are read from -texts (a directory), or from S3 with -bucket, or
// from MinIO with -minio-endpoint. Remote texts are cached in memory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: intertext <command> [flags]

commands:
  search   compare a source and a target text
  batch    compare a source with many targets
  export   write a stored match set as csv, json or xml
  list     list stored match sets, or one page of a set's matches

run "intertext <command> -h" for the flags of a command.
`

var errUsage = errors.New("usage")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "search":
		return runSearch(ctx, rest, stdout, stderr)
	case "batch":
		return runBatch(ctx, rest, stdout, stderr)
	case "export":
		return runExport(ctx, rest, stdout, stderr)
	case "list":
		return runList(ctx, rest, stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}
