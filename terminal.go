package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/Laisky/errors/v2"
	"golang.org/x/term"
)

// InputPassword reads password from terminal without echo.
//
// hint is written to stderr, so stdout stays clean for pipes.
// if validator returns error, user will be asked to try again.
func InputPassword(hint string, validator func(string) error) (passwd string, err error) {
	return inputPassword(os.Stderr, func() ([]byte, error) {
		return term.ReadPassword(int(os.Stdin.Fd()))
	}, hint, validator)
}

func inputPassword(w io.Writer, read func() ([]byte, error),
	hint string, validator func(string) error) (string, error) {
	fmt.Fprintf(w, "%s: ", hint)

	for {
		bytepw, err := read()
		fmt.Fprintln(w)
		if err != nil {
			return "", errors.Wrap(err, "read input password")
		}

		if validator == nil {
			return string(bytepw), nil
		}

		if err := validator(string(bytepw)); err != nil {
			fmt.Fprintf(w, "invalid password: %s\n", err.Error())
			fmt.Fprintf(w, "try again: ")
			continue
		}

		return string(bytepw), nil
	}
}
