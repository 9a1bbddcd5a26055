package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/huh"
)

type HistoryShowCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	Limit    int    `short:"n" default:"30" help:"Show at most this many records."`
}

func (c *HistoryShowCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(c.Activity)
	if err != nil {
		return err
	}

	completions := ctx.Completions.ForActivity(activity.ID)
	if len(completions) == 0 {
		fmt.Printf("%s has no completion records\n", activity.DisplayTitle())
		return nil
	}

	sort.Slice(completions, func(i, j int) bool {
		return completions[i].Day.After(completions[j].Day)
	})
	if c.Limit > 0 && len(completions) > c.Limit {
		completions = completions[:c.Limit]
	}

	fmt.Println(titleStyle.Render(activity.DisplayTitle()))
	for _, comp := range completions {
		fmt.Printf("  %s %s  %s\n", statusGlyph(comp.Status), comp.Day,
			dimStyle.Render(comp.Status.String()))
	}
	return nil
}

type HistoryPurgeCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HistoryPurgeCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(c.Activity)
	if err != nil {
		return err
	}

	n := len(ctx.Completions.ForActivity(activity.ID))
	if n == 0 {
		fmt.Printf("%s has no completion records\n", activity.DisplayTitle())
		return nil
	}

	if !c.Yes {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete all %d completion record(s) for %q?", n, activity.DisplayTitle())).
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.History.DeleteHistory(activity); err != nil {
		return err
	}

	fmt.Printf("Deleted %d completion record(s) for %q\n", n, activity.DisplayTitle())
	return nil
}

type HistoryDeleteCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	On       string `help:"Date of the record to delete (YYYY-MM-DD, default today)."`
}

func (c *HistoryDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(c.Activity)
	if err != nil {
		return err
	}

	day, err := parseDayFlag(c.On)
	if err != nil {
		return err
	}

	existing, err := ctx.History.Completion(activity, day)
	if err != nil {
		return err
	}
	if existing == nil {
		fmt.Printf("No record for %q on %s\n", activity.DisplayTitle(), day)
		return nil
	}

	if err := ctx.History.DeleteCompletion(activity, day); err != nil {
		return err
	}

	fmt.Printf("Deleted %s record for %q on %s\n",
		existing.Status.String(), activity.DisplayTitle(), day)
	return nil
}
