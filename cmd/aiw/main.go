/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"os"

	"github.com/josephgoksu/flowkit/cmd"
	"github.com/josephgoksu/flowkit/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	os.Exit(cmd.ExecuteAIW())
}
