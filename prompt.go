package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Interactor is everything the controller needs from the person at the keyboard.
// Methods return io.EOF once input is closed.
type Interactor interface {
	// Ask reads one line.
	Ask(label string) (string, error)
	// Secret reads one line without echo when possible.
	Secret(label string) (string, error)
	// Prompt reads one optional line; ok is false when the admin cancelled.
	Prompt(label string) (value string, ok bool, err error)
	// Confirm asks a yes/no question; anything but yes is no.
	Confirm(question string) (bool, error)
	// Alert shows a message that needs no answer.
	Alert(text string)
}

// Terminal is the Interactor for a real console
type Terminal struct {
	in         *bufio.Reader
	inFile     *os.File
	out        io.Writer
	cancelWord string
	texts      *Texts
}

func NewTerminal(in *os.File, out io.Writer, cancelWord string, texts *Texts) *Terminal {
	return &Terminal{
		in:         bufio.NewReader(in),
		inFile:     in,
		out:        out,
		cancelWord: cancelWord,
		texts:      texts,
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) Ask(label string) (string, error) {
	fmt.Fprint(t.out, promptStyle.Render(label+": "))
	return t.readLine()
}

func (t *Terminal) Secret(label string) (string, error) {
	fd := int(t.inFile.Fd())
	if !term.IsTerminal(fd) || t.in.Buffered() > 0 {
		return t.Ask(label)
	}
	fmt.Fprint(t.out, promptStyle.Render(label+": "))
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (t *Terminal) Prompt(label string) (string, bool, error) {
	hint := hintStyle.Render(t.texts.T("prompt.cancel_hint", t.cancelWord))
	fmt.Fprintln(t.out, hint)
	line, err := t.Ask(label)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(line) == t.cancelWord {
		return "", false, nil
	}
	return line, true, nil
}

func (t *Terminal) Confirm(question string) (bool, error) {
	line, err := t.Ask(question + " " + t.texts.T("common.yes_no"))
	if err != nil {
		return false, err
	}
	return isYes(line), nil
}

func (t *Terminal) Alert(text string) {
	fmt.Fprintln(t.out, alertStyle.Render(text))
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}
