// peerlineバックエンドのエントリーポイント。
// サブコマンド: serve（デフォルト）、worker、migrate、healthcheck。
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/peerline/internal/app"
)

func main() {
	if err := app.Run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}
