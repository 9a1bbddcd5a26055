package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nickholt/routine/internal/history"
	"github.com/nickholt/routine/internal/models"
)

type DayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, default today)."`
}

func (c *DayCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	day, err := parseDayFlag(c.Date)
	if err != nil {
		return err
	}

	activities := ctx.Activities.ActivitiesOn(day)
	if len(activities) == 0 {
		fmt.Printf("Nothing scheduled on %s (%s)\n", day, day.Weekday())
		return nil
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].DisplayTitle() < activities[j].DisplayTitle()
	})

	fmt.Printf("%s\n", titleStyle.Render(fmt.Sprintf("%s (%s)", day, day.Weekday())))

	for _, a := range activities {
		completion, err := ctx.History.Completion(a, day)
		if err != nil {
			return err
		}

		glyph := dimStyle.Render("·")
		note := "no record"
		if completion != nil {
			glyph = statusGlyph(completion.Status)
			note = completion.Status.String()
		}

		// Today's outcome is provisional, so its streak display falls back
		// to the run still in progress; past days show the settled value.
		streak, err := ctx.History.Streak(a, day, day == models.Today())
		if err != nil && !errors.Is(err, history.ErrActivityNotFound) {
			return err
		}

		fmt.Printf("  %s %s  %s\n", glyph, a.DisplayTitle(),
			dimStyle.Render(fmt.Sprintf("%s, streak %d", note, streak)))
	}

	return nil
}

type StreakCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	On       string `help:"Anchor date (YYYY-MM-DD, default today)."`
}

func (c *StreakCmd) Run(ctx *Context) error {
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

	streak, err := ctx.History.Streak(activity, day, day == models.Today())
	if err != nil {
		if errors.Is(err, history.ErrActivityNotFound) {
			fmt.Printf("%s has no completion records yet\n", activity.DisplayTitle())
			return nil
		}
		return err
	}

	fmt.Printf("%s: %d day streak ending %s\n", activity.DisplayTitle(), streak, day)
	return nil
}
