package main

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/logger"
)

// renderMarkdown writes md to w, styled with glamour when mode asks for it.
// "auto" styles only when w is a terminal.
func renderMarkdown(w io.Writer, md, mode string) error {
	if !wantsStyling(w, mode) {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err == nil {
		var styled string
		if styled, err = r.Render(md); err == nil {
			_, err = io.WriteString(w, styled)
			return err
		}
	}
	logger.WithComponent("cli").Debug("markdown rendering failed, writing plain text", "error", err)
	_, err = io.WriteString(w, md)
	return err
}

func wantsStyling(w io.Writer, mode string) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
