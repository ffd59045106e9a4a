package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// Prompt describes one question. Which fields matter depends on the
// Prompter method it is passed to.
type Prompt struct {
	Label string
	Help  string

	// Default pre-fills a text answer.
	Default string
	// Yes is the default of a confirmation.
	Yes bool
	// Options and Selected drive a choice; Selected < 0 means no default.
	Options  []string
	Selected int
	// Check rejects a text answer before it is accepted.
	Check func(string) error
}

// Prompter asks questions on a terminal. Sessions only talk to this
// interface so tests can script the answers.
type Prompter interface {
	Text(ctx context.Context, p Prompt) (string, error)
	Confirm(ctx context.Context, p Prompt) (bool, error)
	Choose(ctx context.Context, p Prompt) (int, error)
	Say(ctx context.Context, msg string) error
}

// choicePageSize keeps long relationship lists scrollable.
const choicePageSize = 10

type surveyPrompter struct {
	out  io.Writer
	opts []survey.AskOpt
}

// NewSurveyPrompter returns a Prompter backed by survey. Messages passed to
// Say go to out.
func NewSurveyPrompter(out io.Writer, opts ...survey.AskOpt) Prompter {
	return &surveyPrompter{out: out, opts: opts}
}

func (p *surveyPrompter) Text(ctx context.Context, q Prompt) (string, error) {
	var answer string
	opts := slices.Clone(p.opts)
	if q.Check != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return q.Check(s)
		}))
	}
	err := p.ask(ctx, &survey.Input{Message: q.Label, Help: q.Help, Default: q.Default}, &answer, opts)
	return answer, err
}

func (p *surveyPrompter) Confirm(ctx context.Context, q Prompt) (bool, error) {
	var answer bool
	err := p.ask(ctx, &survey.Confirm{Message: q.Label, Help: q.Help, Default: q.Yes}, &answer, p.opts)
	return answer, err
}

func (p *surveyPrompter) Choose(ctx context.Context, q Prompt) (int, error) {
	if len(q.Options) == 0 {
		return -1, ErrNoOptions
	}
	sel := &survey.Select{
		Message:  q.Label,
		Help:     q.Help,
		Options:  q.Options,
		PageSize: choicePageSize,
	}
	if q.Selected >= 0 && q.Selected < len(q.Options) {
		sel.Default = q.Options[q.Selected]
	}
	// survey writes the chosen index when the target is an int.
	var index int
	if err := p.ask(ctx, sel, &index, p.opts); err != nil {
		return -1, err
	}
	return index, nil
}

func (p *surveyPrompter) Say(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.out == nil {
		return nil
	}
	_, err := fmt.Fprintln(p.out, msg)
	return err
}

func (p *surveyPrompter) ask(ctx context.Context, prompt survey.Prompt, answer any, opts []survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, answer, opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
