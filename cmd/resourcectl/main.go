// Command resourcectl reads and deletes JSON:API resources through the
// resource adapter.
//
//	resourcectl url users 7
//	resourcectl get users 7 --token $API_TOKEN
//	resourcectl get users --query 'filter[name]=ada' --output raw
//	resourcectl delete users 7
//
// Configuration comes from config.yml, .env and the environment (API_URL,
// API_NAMESPACE, AUTHORIZER).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		root.PrintErrln(describeError(err))
		return 1
	}
	return 0
}
