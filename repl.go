package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pontaoski/kaleido/driver"
)

const (
	historyFile = ".kaleido_history"
	promptMain  = "ready> "
	promptCont  = "...    "
)

func runREPL(ctx context.Context, d *driver.Driver) error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		src, ok := readUnit(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}

		err := d.Run(ctx, strings.NewReader(src), "repl")
		if err != nil {
			return err
		}

		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}

	return nil
}

// readUnit keeps prompting while the input is obviously unfinished.
func readUnit(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if err == io.EOF {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the current input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

func incomplete(src string) bool {
	depth := 0
	for _, line := range strings.Split(src, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		depth += strings.Count(line, "(") - strings.Count(line, ")")
	}
	if depth > 0 {
		return true
	}

	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return false
	}
	if strings.ContainsRune("+-*<,", rune(trimmed[len(trimmed)-1])) {
		return true
	}

	// a definition whose body is on the next line
	return strings.Fields(trimmed)[0] == "def" && !hasBody(trimmed)
}

// hasBody reports whether something follows the prototype of a definition.
func hasBody(def string) bool {
	i := strings.IndexByte(def, ')')
	return i >= 0 && strings.TrimSpace(def[i+1:]) != ""
}
