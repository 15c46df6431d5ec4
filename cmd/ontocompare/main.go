// Command ontocompare reconciles the Arabic Ontology subTypeOf hierarchy with
// the Arabic WordNet hypernym graph.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ontocompare: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}
