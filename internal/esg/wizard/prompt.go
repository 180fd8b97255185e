package wizard

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter wraps interactive input for the wizard.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// ask prints a prompt and reads one line of input. It fails once input is
// exhausted.
func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s ", prompt)
	if p.scanner.Scan() {
		return strings.TrimSpace(p.scanner.Text()), nil
	}
	if err := p.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.ErrUnexpectedEOF
}

// askDefault prints a prompt with a default value shown in brackets.
func (p *prompter) askDefault(prompt, defaultVal string) (string, error) {
	answer, err := p.ask(fmt.Sprintf("%s [%s]:", prompt, defaultVal))
	if err != nil || answer == "" {
		return defaultVal, err
	}
	return answer, nil
}

// askYesNo prints a y/n prompt and returns true for yes. An empty answer
// takes the default; anything unrecognized is asked again.
func (p *prompter) askYesNo(prompt string, defaultYes bool) (bool, error) {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}
	for {
		answer, err := p.ask(fmt.Sprintf("%s %s:", prompt, suffix))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes", "是":
			return true, nil
		case "n", "no", "否":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

// askChoice prints numbered options and returns the selected 0-based index.
func (p *prompter) askChoice(prompt string, options []string) (int, error) {
	fmt.Fprintln(p.out, prompt)
	for i, opt := range options {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, opt)
	}
	for {
		answer, err := p.ask("Choice:")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(options))
	}
}

// askAmount reads a non-negative number, falling back to 0.
func (p *prompter) askAmount(prompt string) (float64, error) {
	for {
		answer, err := p.askDefault(prompt, "0")
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(answer, 64)
		if err == nil && v >= 0 {
			return v, nil
		}
		fmt.Fprintln(p.out, "Please enter a non-negative number.")
	}
}
