package main

import (
	"musicpal/cmd/musicpal/commands"
	"musicpal/lib/serviceutil"
	"os"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	code := commands.ExecuteContext(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
