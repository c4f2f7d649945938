package helper

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"strings"

	"golang.org/x/term"
)

// Confirm asks the operator a yes/no question and only accepts an explicit
// "yes" as consent. Anything else declines.
func Confirm(prompt string) (bool, error) {
	fmt.Printf("%s (yes/no)? ", prompt)

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	return strings.EqualFold(strings.TrimSpace(answer), "yes"), nil
}

// ReadPassword prompts for a password without echoing it.
func ReadPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	input, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	password := strings.TrimSpace(string(input))
	if password == "" {
		return ReadPassword(prompt)
	}
	return password, nil
}

// CurrentUser returns the local account name, used as the default cluster
// login and as the audit operator identity.
func CurrentUser() string {
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	return os.Getenv("USER")
}
