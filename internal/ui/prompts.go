package ui

import (
	"github.com/charmbracelet/huh"
)

// ConfirmOption configures a Confirm prompt.
type ConfirmOption func(*confirmConfig)

type confirmConfig struct {
	affirmative string
	negative    string
	description string
	initial     bool
}

// WithLabels sets the button labels of Confirm.
func WithLabels(affirmative, negative string) ConfirmOption {
	return func(c *confirmConfig) {
		c.affirmative = affirmative
		c.negative = negative
	}
}

func WithDescription(desc string) ConfirmOption {
	return func(c *confirmConfig) {
		c.description = desc
	}
}

// WithDefault preselects the answer.
func WithDefault(value bool) ConfirmOption {
	return func(c *confirmConfig) {
		c.initial = value
	}
}

// Confirm asks a yes/no question.
func Confirm(title string, opts ...ConfirmOption) (bool, error) {
	cfg := confirmConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	result := cfg.initial
	confirm := huh.NewConfirm().
		Title(title).
		Value(&result)

	if cfg.affirmative != "" {
		confirm = confirm.Affirmative(cfg.affirmative)
	}
	if cfg.negative != "" {
		confirm = confirm.Negative(cfg.negative)
	}
	if cfg.description != "" {
		confirm = confirm.Description(cfg.description)
	}

	if err := huh.NewForm(huh.NewGroup(confirm)).WithTheme(Theme()).Run(); err != nil {
		return false, err
	}
	return result, nil
}

// InputOption configures an Input prompt.
type InputOption func(*inputConfig)

type inputConfig struct {
	description string
	placeholder string
	validate    func(string) error
}

func WithInputDescription(desc string) InputOption {
	return func(c *inputConfig) {
		c.description = desc
	}
}

func WithPlaceholder(placeholder string) InputOption {
	return func(c *inputConfig) {
		c.placeholder = placeholder
	}
}

// WithValidation rejects input for which fn returns an error; the error is
// shown below the field.
func WithValidation(fn func(string) error) InputOption {
	return func(c *inputConfig) {
		c.validate = fn
	}
}

// Input asks for a single line of text.
func Input(title string, opts ...InputOption) (string, error) {
	cfg := inputConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	var result string
	input := huh.NewInput().
		Title(title).
		Value(&result)

	if cfg.description != "" {
		input = input.Description(cfg.description)
	}
	if cfg.placeholder != "" {
		input = input.Placeholder(cfg.placeholder)
	}
	if cfg.validate != nil {
		input = input.Validate(cfg.validate)
	}

	if err := huh.NewForm(huh.NewGroup(input)).WithTheme(Theme()).Run(); err != nil {
		return "", err
	}
	return result, nil
}

// SelectOption is one entry of a Select prompt.
type SelectOption[T comparable] struct {
	Label string
	Value T
}

// Select asks the user to pick one of options. height limits the number of
// visible rows; zero shows them all.
func Select[T comparable](title string, options []SelectOption[T], height int) (T, error) {
	var result T

	huhOpts := make([]huh.Option[T], len(options))
	for i, opt := range options {
		huhOpts[i] = huh.NewOption(opt.Label, opt.Value)
	}

	sel := huh.NewSelect[T]().
		Title(title).
		Options(huhOpts...).
		Value(&result)
	if height > 0 {
		sel = sel.Height(height)
	}

	if err := huh.NewForm(huh.NewGroup(sel)).WithTheme(Theme()).Run(); err != nil {
		return result, err
	}
	return result, nil
}
