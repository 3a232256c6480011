package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/service/review"
	"github.com/spf13/cobra"
)

const (
	cmdOverride = ":override"
	cmdRepeat   = ":repeat"
	cmdSkip     = ":skip"
	cmdQuit     = ":quit"
)

func newReviewCmd(holder *appHolder) *cobra.Command {
	var (
		mode      string
		groupID   int64
		direction string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Start an interactive review session",
		Long: `Review words one at a time and type the missing side.

Modes:
  due           words whose review time has come (default)
  all           every word, in order, without changing progress
  group-forced  every word of --group, due or not
  shuffled-all  every word in random order

While answering, type :skip to pass, :repeat to review the current group
again or :quit to stop. After a wrong answer, :override accepts it anyway.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := review.ParseMode(mode)
			if err != nil {
				return err
			}
			if m == review.ModeGroupForced && !cmd.Flags().Changed("group") {
				return errors.New("--group is required for group-forced mode")
			}
			var opts []review.BuilderOption
			switch direction {
			case "random", "":
			case "term":
				opts = append(opts, review.WithDirection(domain.PromptWithTerm))
			case "definition":
				opts = append(opts, review.WithDirection(domain.PromptWithDefinition))
			default:
				return fmt.Errorf("unknown direction %q (want random, term or definition)", direction)
			}

			sess := holder.app.newSession(opts...)
			r := &reviewLoop{
				sess: sess,
				in:   bufio.NewScanner(cmd.InOrStdin()),
				out:  cmd.OutOrStdout(),
			}
			if err := sess.Start(cmd.Context(), m, groupID); err != nil {
				if errors.Is(err, review.ErrNothingToReview) {
					fmt.Fprintln(r.out, "Nothing to review right now.")
					return nil
				}
				return err
			}
			err = r.run(cmd.Context())

			t := holder.app.tally.Session(sess.ID())
			fmt.Fprintf(r.out, "Answered %d, correct %d", t.Graded, t.Correct)
			if t.Overridden > 0 {
				fmt.Fprintf(r.out, " (%d overridden)", t.Overridden)
			}
			fmt.Fprintln(r.out)
			return err
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(review.ModeDue), "Review mode: due, all, group-forced or shuffled-all")
	cmd.Flags().Int64VarP(&groupID, "group", "g", 0, "Group to review in group-forced mode")
	cmd.Flags().StringVarP(&direction, "direction", "d", "random", "Prompt side: random, term or definition")
	return cmd
}

// reviewLoop renders a session on a line-oriented terminal.
type reviewLoop struct {
	sess *review.Session
	in   *bufio.Scanner
	out  io.Writer
}

func (r *reviewLoop) readLine(prompt string) (string, bool) {
	fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		fmt.Fprintln(r.out)
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *reviewLoop) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			r.sess.Close()
			return err
		}

		var (
			done bool
			err  error
		)
		switch r.sess.State() {
		case review.StatePresenting:
			done, err = r.present(ctx)
		case review.StateGraded:
			done, err = r.graded(ctx)
		case review.StateComplete:
			done, err = r.complete(ctx)
		default:
			return nil
		}
		if err != nil || done {
			r.sess.Close()
			return err
		}
	}
}

func (r *reviewLoop) present(ctx context.Context) (bool, error) {
	p, err := r.sess.Current()
	if err != nil {
		return false, err
	}
	fmt.Fprintf(r.out, "\n[%d/%d] %s | stage %s\n", p.Progress.Completed+1, p.Progress.Total, p.GroupName, p.StageLabel)
	fmt.Fprintf(r.out, "  %s\n", p.Shown)

	line, ok := r.readLine("> ")
	if !ok {
		return true, nil
	}
	switch line {
	case cmdQuit:
		return true, nil
	case cmdRepeat:
		return false, r.restartOrFinish(r.sess.RepeatGroup(ctx))
	case cmdSkip:
		return false, r.sess.Continue(ctx)
	}

	out, err := r.sess.Submit(ctx, line)
	if errors.Is(err, domain.ErrEmptyAnswer) {
		fmt.Fprintln(r.out, "Enter an answer, or :skip.")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if out.Correct {
		fmt.Fprintf(r.out, "Correct: %s\n", out.Expected)
	} else {
		fmt.Fprintf(r.out, "Wrong. Expected: %s\n", strings.Join(out.Variants, " / "))
	}
	return false, nil
}

func (r *reviewLoop) graded(ctx context.Context) (bool, error) {
	line, ok := r.readLine("Enter to continue, :override to accept > ")
	if !ok {
		return true, nil
	}

	var err error
	switch line {
	case cmdQuit:
		return true, nil
	case cmdOverride:
		err = r.sess.Override(ctx)
	default:
		err = r.sess.Continue(ctx)
	}
	if err != nil {
		fmt.Fprintf(r.out, "Could not save progress: %v\nPress Enter to retry or :quit.\n", err)
	}
	return false, nil
}

func (r *reviewLoop) complete(ctx context.Context) (bool, error) {
	p := r.sess.Progress()
	fmt.Fprintf(r.out, "\nSession complete: %d/%d\n", p.Completed, p.Total)
	line, ok := r.readLine("r to restart, :repeat for the last group, Enter to finish > ")
	if !ok {
		return true, nil
	}
	switch line {
	case "r", ":restart":
		return false, r.restartOrFinish(r.sess.Restart(ctx))
	case cmdRepeat:
		return false, r.restartOrFinish(r.sess.RepeatGroup(ctx))
	}
	return true, nil
}

// restartOrFinish treats an empty new queue as the end of the session.
func (r *reviewLoop) restartOrFinish(err error) error {
	if errors.Is(err, review.ErrNothingToReview) {
		fmt.Fprintln(r.out, "Nothing left to review.")
		return nil
	}
	return err
}
