// Package main hashes a password read from standard input so it can be added to the accounts file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jacobpatterson1549/selene-darts/server/auth"
)

func main() {
	log := log.New(os.Stderr, "", 0)
	cfg, err := newPasswordConfig(os.Args, os.Stderr)
	if err != nil {
		log.Fatalf("parsing flags: %v", err)
	}
	ph, err := cfg.NewPasswordHandler()
	if err != nil {
		log.Fatal(err)
	}
	hash, err := hashPassword(os.Stdin, ph)
	if err != nil {
		log.Fatalf("hashing password: %v", err)
	}
	fmt.Println(hash)
}

// newPasswordConfig parses the hash cost from the command line arguments.
func newPasswordConfig(osArgs []string, output io.Writer) (*auth.PasswordConfig, error) {
	programName, args := osArgs[0], osArgs[1:]
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(output)
	var cfg auth.PasswordConfig
	fs.IntVar(&cfg.Cost, "cost", 0, "The bcrypt cost to hash the password with.  The default cost is used if it is zero.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// hasher hashes passwords.
type hasher interface {
	Hash(password string) ([]byte, error)
}

// hashPassword hashes the first line of the reader.
func hashPassword(r io.Reader, h hasher) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if len(password) == 0 {
		return "", fmt.Errorf("password required")
	}
	hash, err := h.Hash(password)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
