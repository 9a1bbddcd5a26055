package cli

import (
	"errors"
	"fmt"

	"github.com/nickholt/routine/internal/history"
	"github.com/nickholt/routine/internal/models"
)

func markCompletion(ctx *Context, ref, on string, status models.Status) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(ref)
	if err != nil {
		return err
	}

	day, err := parseDayFlag(on)
	if err != nil {
		return err
	}

	if _, err := ctx.History.RegisterCompletion(activity, day, status); err != nil {
		return err
	}

	// The just-registered record anchors the streak, so only the
	// no-records-at-all error is possible; surface anything else.
	streak, err := ctx.History.Streak(activity, day, day == models.Today())
	if err != nil && !errors.Is(err, history.ErrActivityNotFound) {
		return err
	}

	fmt.Printf("%s %s on %s", statusGlyph(status), activity.DisplayTitle(), day)
	if streak > 0 {
		fmt.Printf("  %s", dimStyle.Render(fmt.Sprintf("(streak: %d)", streak)))
	}
	fmt.Println()
	return nil
}

type DoneCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	On       string `help:"Date to record (YYYY-MM-DD, default today)."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	return markCompletion(ctx, c.Activity, c.On, models.StatusCompleted)
}

type SkipCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	On       string `help:"Date to record (YYYY-MM-DD, default today)."`
}

func (c *SkipCmd) Run(ctx *Context) error {
	return markCompletion(ctx, c.Activity, c.On, models.StatusExcused)
}

type MissCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	On       string `help:"Date to record (YYYY-MM-DD, default today)."`
}

func (c *MissCmd) Run(ctx *Context) error {
	return markCompletion(ctx, c.Activity, c.On, models.StatusNotCompleted)
}
