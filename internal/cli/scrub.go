package cli

import (
	"fmt"

	"github.com/nickholt/routine/internal/models"
)

type ScrubCmd struct {
	From     string `required:"" help:"First date to backfill (YYYY-MM-DD)."`
	To       string `help:"Last date to backfill (YYYY-MM-DD, default today)."`
	Activity string `short:"a" help:"Limit the backfill to one activity."`
}

func (c *ScrubCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	from, err := models.ParseDay(c.From)
	if err != nil {
		return err
	}
	to, err := parseDayFlag(c.To)
	if err != nil {
		return err
	}
	if to.Before(from) {
		return fmt.Errorf("--to must not be before --from")
	}

	if c.Activity != "" {
		activity, err := ctx.resolveActivity(c.Activity)
		if err != nil {
			return err
		}
		if err := ctx.History.ScrubActivity(activity, from, to); err != nil {
			return err
		}
		fmt.Printf("Backfilled %q from %s to %s\n", activity.DisplayTitle(), from, to)
		return nil
	}

	if err := ctx.History.Scrub(from, to); err != nil {
		return err
	}
	fmt.Printf("Backfilled all active activities from %s to %s\n", from, to)
	return nil
}
