package main

import (
	"fmt"
	"os"

	"github.com/Riyan-420/CryptoSentinel-V2/cmd/cryptosentinel/commands"
	"github.com/Riyan-420/CryptoSentinel-V2/logger"
)

func main() {
	defer logger.Cleanup()

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
