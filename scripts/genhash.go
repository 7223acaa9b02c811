package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Small helper for seeding test accounts: prints bcrypt hashes for the
// passwords given on the command line.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <password> [password...]")
		os.Exit(1)
	}

	for _, pass := range os.Args[1:] {
		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			continue
		}
		fmt.Printf("%s\n", string(hash))
	}
}
