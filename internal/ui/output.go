package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lokal-dev/lokal/internal/structure"
)

// Output prints styled messages to a writer. Commands use the writer cobra
// hands them so tests can capture what the user sees.
type Output struct {
	w io.Writer
}

func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

func (o *Output) Writer() io.Writer {
	return o.w
}

func (o *Output) println(s string) {
	fmt.Fprintln(o.w, s)
}

func (o *Output) Title(text string) {
	o.println(TitleStyle.Render(text))
}

func (o *Output) Success(text string) {
	o.println(SuccessStyle.Render("✓ " + text))
}

func (o *Output) Error(text string) {
	o.println(ErrorStyle.Render("✗ " + text))
}

func (o *Output) Warning(text string) {
	o.println(WarningStyle.Render("! " + text))
}

// Dim prints secondary text, indented by two spaces.
func (o *Output) Dim(text string) {
	o.println(DimStyle.Render("  " + text))
}

func (o *Output) Step(text string) {
	o.println(StepStyle.Render(text))
}

func (o *Output) Command(text string) {
	o.println(CommandStyle.Render(text))
}

func (o *Output) Box(text string) {
	o.println(BoxStyle.Render(text))
}

func (o *Output) Line() {
	fmt.Fprintln(o.w)
}

func (o *Output) Print(text string) {
	o.println(text)
}

func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.w, format, args...)
}

// Tree prints n as an indented listing headed by root. Directories are
// suffixed with a slash.
func (o *Output) Tree(root string, n structure.Node) error {
	return structure.Render(o.w, n, structure.RenderOptions{
		Root:      root,
		DirStyle:  func(s string) string { return DirStyle.Render(s) },
		FileStyle: func(s string) string { return FileStyle.Render(s) },
	})
}

// Indent prefixes text with two spaces per level.
func Indent(text string, level int) string {
	return strings.Repeat("  ", level) + text
}

// IsInteractive reports whether prompts can be shown: both stdin and stdout
// must be terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func RenderTitle(text string) string   { return TitleStyle.Render(text) }
func RenderSuccess(text string) string { return SuccessStyle.Render(text) }
func RenderError(text string) string   { return ErrorStyle.Render(text) }
func RenderDim(text string) string     { return DimStyle.Render(text) }
func RenderBold(text string) string    { return BoldStyle.Render(text) }
func RenderAccent(text string) string  { return AccentStyle.Render(text) }
func RenderCommand(text string) string { return CommandStyle.Render(text) }
