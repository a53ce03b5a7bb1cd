package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	vidcmd "vidscribe/internal/cli/cmd"
)

func main() {
	err := vidcmd.Execute(context.Background())
	if err == nil {
		return
	}
	code := vidcmd.ExitCLIError
	var ee *vidcmd.ExitError
	if errors.As(err, &ee) {
		code = ee.Code
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintln(os.Stderr, "vidscribe:", msg)
	}
	os.Exit(code)
}
