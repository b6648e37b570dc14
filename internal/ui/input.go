package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/format"
)

// Prompter asks the user for the search parameters.
type Prompter struct {
	reader *bufio.Reader
}

// NewPrompter reads answers from r.
func NewPrompter(r io.Reader) *Prompter {
	return &Prompter{reader: bufio.NewReader(r)}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// SelectEncodingType shows the type menu until a valid choice is made.
func (p *Prompter) SelectEncodingType() (format.EncodingType, error) {
	colorLabel.Fprintln(Out, "    🔐 SELECT TYPE")
	for i, t := range format.Types {
		d := format.MustLookup(t)
		hint := ""
		if d.FirstChars != "" {
			hint = " (" + strings.Join(d.ExpectedFirstChars(), "/") + "...)"
		}
		fmt.Fprintf(Out, "    %s %s%s\n", colorOption.Sprintf("[%d]", i+1), d.Name, colorDim.Sprint(hint))
	}

	for {
		fmt.Fprintf(Out, "\n    %s ", colorOK.Sprint("→"))
		answer, err := p.readLine()
		if err != nil {
			return format.Unset, err
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(format.Types) {
			t := format.Types[n-1]
			colorOK.Fprintf(Out, "    ✓ %s\n\n", format.MustLookup(t).Name)
			return t, nil
		}
		if t, err := format.ParseEncodingType(answer); err == nil {
			colorOK.Fprintf(Out, "    ✓ %s\n\n", format.MustLookup(t).Name)
			return t, nil
		}
		PrintError("Invalid choice!")
	}
}

// AskPlaceholder asks for the missing-character symbol. An empty answer
// keeps def.
func (p *Prompter) AskPlaceholder(def rune) (rune, error) {
	for {
		fmt.Fprintf(Out, "    %s (%s) [%c]: ", colorOption.Sprint("Placeholder"), base58.Placeholders, def)
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return def, nil
		}
		r := []rune(answer)
		if len(r) == 1 && format.PlaceholderIsValid(r[0]) {
			return r[0], nil
		}
		PrintError("Placeholder must be one of %s", base58.Placeholders)
	}
}

// AskInput asks for the damaged string until it passes the checks that do
// not need the missing characters.
func (p *Prompter) AskInput(placeholder rune, t format.EncodingType) (string, error) {
	colorLabel.Fprintln(Out, "    🎯 DAMAGED STRING")
	for {
		fmt.Fprintf(Out, "    %s (missing = %c): ", colorOption.Sprint("Input"), placeholder)
		input, err := p.readLine()
		if err != nil {
			return "", err
		}

		if bad := base58.InvalidChars(input, placeholder); len(bad) > 0 {
			PrintError("Invalid Base58 character(s): %s", string(bad))
			colorDim.Fprintln(Out, "      (Not allowed: 0, O, I, l)")
			continue
		}
		if err := format.CheckIncomplete(input, placeholder, t); err != nil {
			PrintError("%s", describe(input, t, err))
			continue
		}
		return input, nil
	}
}

// describe prefers the human message, falling back to err.
func describe(input string, t format.EncodingType, err error) string {
	if msg := format.DescribeProblem(input, t); msg != "" {
		return msg
	}
	return err.Error()
}

// AskToContinue prompts user to search again or exit
func (p *Prompter) AskToContinue() bool {
	fmt.Fprintf(Out, "\n    %s Search again  │  %s Exit\n", colorOK.Sprint("[Enter]"), colorError.Sprint("[Q]"))
	fmt.Fprintf(Out, "    %s ", colorOption.Sprint("→"))
	answer, err := p.readLine()
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer != "q" && answer != "quit" && answer != "exit"
}
