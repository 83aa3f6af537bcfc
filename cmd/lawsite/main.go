// Command lawsite serves the firm website API and admin console API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/advocatechambers/lawsite/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		fmt.Fprintln(os.Stderr, "lawsite:", err)
		os.Exit(1)
	}
}
