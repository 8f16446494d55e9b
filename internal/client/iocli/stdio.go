package iocli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

type Stdio struct{}

func NewStdio() IO {
	return &Stdio{}
}

func (s *Stdio) Println(a ...any) {
	fmt.Println(a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Stdio) ReadPassword(prompt string) (string, error) {
	fd := os.Stdin.Fd()

	// Без терминала (пайп, CI) скрытый ввод невозможен - читаем строку
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return s.ReadInput(prompt)
	}

	s.Printf("%s", prompt)
	pwBytes, err := term.ReadPassword(int(fd))
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}
