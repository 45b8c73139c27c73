package main

import (
	"context"
	"fmt"
	"os"

	"news-optimizer/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "news-optimizer failed to start: %v\n", err)
		os.Exit(1)
	}
}
