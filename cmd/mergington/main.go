// Command mergington はMergington高校の課外活動管理APIサーバーを起動する。
//
// 使い方:
//
//	mergington [serve|validate|healthcheck]
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/mergington/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mergington: %v\n", err)
		os.Exit(1)
	}
}
