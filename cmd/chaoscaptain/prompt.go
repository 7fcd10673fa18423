package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// prompter asks questions on a line based terminal.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints question and returns the trimmed answer. EOF reads as an empty
// answer.
func (p *prompter) ask(question, hint string) string {
	if hint != "" {
		fmt.Fprintf(p.out, "%s (%s)\n> ", question, hint)
	} else {
		fmt.Fprintf(p.out, "%s\n> ", question)
	}
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return ""
	}
	return strings.TrimSpace(p.in.Text())
}

// choose offers numbered options and returns the picked index, or -1 when the
// answer is empty. Free text that is not a number is returned in other.
func (p *prompter) choose(question string, options []string) (idx int, other string) {
	fmt.Fprintln(p.out, question)
	for i, o := range options {
		fmt.Fprintf(p.out, "  [%d] %s\n", i+1, o)
	}
	answer := p.ask("Pick a number or type your own", "")
	if answer == "" {
		return -1, ""
	}
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return n - 1, ""
	}
	return -1, answer
}

// confirm is a yes/no question defaulting to def.
func (p *prompter) confirm(question string, def bool) bool {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	switch strings.ToLower(p.ask(question, hint)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	}
	return def
}
