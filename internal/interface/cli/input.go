package cli

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// console pairs line input with the presenter used for prompts.
type console struct {
	reader *bufio.Reader
	out    *Presenter
}

func newConsole(in io.Reader, out *Presenter) *console {
	return &console{reader: bufio.NewReader(in), out: out}
}

// readLine returns the next trimmed line, however long. A final line without
// a newline is still returned; closed input is io.EOF.
func (c *console) readLine() (string, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ask prints a prompt and reads one line.
func (c *console) ask(prompt string) (string, error) {
	c.out.Prompt(prompt)
	return c.readLine()
}

// askInt re-prompts until the line parses as an integer.
func (c *console) askInt(prompt string) (int, error) {
	for {
		line, err := c.ask(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		c.out.Error("Invalid input. Please enter a valid number.")
	}
}

// askFloat re-prompts until the line parses as a decimal number.
func (c *console) askFloat(prompt string) (float64, error) {
	for {
		line, err := c.ask(prompt)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(line, 64)
		if err == nil {
			return f, nil
		}
		c.out.Error("Invalid input. Please enter a valid number.")
	}
}

// askValid re-prompts until check accepts the line.
func (c *console) askValid(prompt string, check func(string) error) (string, error) {
	for {
		line, err := c.ask(prompt)
		if err != nil {
			return "", err
		}
		if err := check(line); err != nil {
			c.out.Error("%s", errMessage(err))
			continue
		}
		return line, nil
	}
}

// askValidInt re-prompts until the number parses and check accepts it.
func (c *console) askValidInt(prompt string, check func(int) error) (int, error) {
	for {
		n, err := c.askInt(prompt)
		if err != nil {
			return 0, err
		}
		if err := check(n); err != nil {
			c.out.Error("%s", errMessage(err))
			continue
		}
		return n, nil
	}
}

// askValidFloat re-prompts until the number parses and check accepts it.
func (c *console) askValidFloat(prompt string, check func(float64) error) (float64, error) {
	for {
		f, err := c.askFloat(prompt)
		if err != nil {
			return 0, err
		}
		if err := check(f); err != nil {
			c.out.Error("%s", errMessage(err))
			continue
		}
		return f, nil
	}
}
