// Command hash-password prints a bcrypt hash for BASIC_AUTH_PASSWORD_HASH.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/spec-kit/catalog-service/internal/auth"
)

var readPassword = term.ReadPassword

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "hash-password:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	fromStdin := fs.Bool("stdin", false, "read the password from the first line of stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var password []byte
	var err error
	if *fromStdin || !term.IsTerminal(int(stdin.Fd())) {
		password, err = readLine(stdin)
	} else {
		fmt.Fprint(stderr, "Password: ")
		password, err = readPassword(int(stdin.Fd()))
		fmt.Fprintln(stderr)
	}
	if err != nil {
		return err
	}
	return writeHash(stdout, password, *cost)
}

func readLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}

func writeHash(w io.Writer, password []byte, cost int) error {
	if len(password) == 0 {
		return errors.New("empty password")
	}
	hashed, err := auth.HashPassword(string(password), cost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hashed)
	return err
}
