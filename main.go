// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"

	"gopkg.microglot.org/parsec.go/internal/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	code := cli.Execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
