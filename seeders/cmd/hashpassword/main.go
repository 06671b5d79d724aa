package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"protocol-system/pkg/utils"
)

// Prints the bcrypt hash of a password for inserting users by hand. The
// password is read from stdin unless -password is given.
func main() {
	password := flag.String("password", "", "password to hash")
	flag.Parse()

	if *password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "no password given")
			os.Exit(1)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
