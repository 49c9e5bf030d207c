// Command hash-generator produces the bcrypt hash of an API key for use as
// the auth.api_key_hash configuration value.
package main

import (
	"fmt"
	"os"

	"github.com/logspool/logspool/internal/service/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator <api-key>")
		os.Exit(1)
	}

	hash, err := auth.HashAPIKey(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
