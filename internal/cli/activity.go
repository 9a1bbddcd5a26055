package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/nickholt/routine/internal/models"
)

type ActivityAddCmd struct {
	Title string `arg:"" optional:"" help:"Activity title."`
	Days  string `short:"d" help:"Comma-separated weekdays (mon,tue,...)."`
	Start string `short:"s" help:"First scheduled date (YYYY-MM-DD, default today)."`
}

func (c *ActivityAddCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	title := c.Title
	daysInput := c.Days

	// Without flags, fall back to an interactive form.
	if title == "" || daysInput == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Activity title").
					Value(&title),
				huh.NewInput().
					Title("Scheduled weekdays (e.g. mon,wed,fri)").
					Value(&daysInput),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	days, err := models.ParseDaySet(daysInput)
	if err != nil {
		return err
	}
	if days.IsEmpty() {
		return fmt.Errorf("at least one weekday is required")
	}

	start := models.Today()
	if c.Start != "" {
		start, err = models.ParseDay(c.Start)
		if err != nil {
			return err
		}
	}

	activity := ctx.Activities.NewActivity()
	activity.Title = title
	activity.Days = days
	activity.StartDate = start

	if err := ctx.Activities.Persist(); err != nil {
		return err
	}

	fmt.Printf("Added %q (%s) scheduled %s starting %s\n",
		activity.DisplayTitle(), shortID(activity.ID), activity.Days, activity.StartDate)
	return nil
}

type ActivityListCmd struct {
	Archived bool `help:"List archived activities instead of active ones."`
}

func (c *ActivityListCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	var activities []*models.Activity
	if c.Archived {
		activities = ctx.Activities.AllInactive()
	} else {
		activities = ctx.Activities.AllActive()
	}

	if len(activities) == 0 {
		if c.Archived {
			fmt.Println("No archived activities.")
		} else {
			fmt.Println("No activities. Add one with 'routine add'.")
		}
		return nil
	}

	for _, a := range activities {
		fmt.Printf("%s  %s  %s\n",
			dimStyle.Render(shortID(a.ID)),
			titleStyle.Render(a.DisplayTitle()),
			dimStyle.Render(fmt.Sprintf("%s, since %s", a.Days, a.StartDate)))
	}
	return nil
}

type ActivityEditCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	Title    string `short:"t" help:"New title."`
	Days     string `short:"d" help:"New comma-separated weekdays."`
	Start    string `short:"s" help:"New start date (YYYY-MM-DD)."`
}

func (c *ActivityEditCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(c.Activity)
	if err != nil {
		return err
	}

	if c.Title != "" {
		activity.Title = c.Title
	}
	if c.Days != "" {
		days, err := models.ParseDaySet(c.Days)
		if err != nil {
			return err
		}
		if days.IsEmpty() {
			return fmt.Errorf("at least one weekday is required")
		}
		activity.Days = days
	}
	if c.Start != "" {
		start, err := models.ParseDay(c.Start)
		if err != nil {
			return err
		}
		activity.StartDate = start
	}

	if err := ctx.Activities.Update(activity); err != nil {
		return err
	}

	fmt.Printf("Updated %q (%s)\n", activity.DisplayTitle(), shortID(activity.ID))
	return nil
}

type ActivityArchiveCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
}

func (c *ActivityArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(c.Activity)
	if err != nil {
		return err
	}

	if err := ctx.Activities.Archive(activity); err != nil {
		return err
	}

	fmt.Printf("Archived %q; its history is retained\n", activity.DisplayTitle())
	return nil
}

type ActivityUnarchiveCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
}

func (c *ActivityUnarchiveCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(c.Activity)
	if err != nil {
		return err
	}

	if err := ctx.Activities.Unarchive(activity); err != nil {
		return err
	}

	fmt.Printf("Unarchived %q\n", activity.DisplayTitle())
	return nil
}

type ActivityDeleteCmd struct {
	Activity string `arg:"" help:"Activity title or ID."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ActivityDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Open(); err != nil {
		return err
	}

	activity, err := ctx.resolveActivity(c.Activity)
	if err != nil {
		return err
	}

	n := len(ctx.Completions.ForActivity(activity.ID))
	if !c.Yes {
		var confirmed bool
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q and its %d completion record(s)?", activity.DisplayTitle(), n)).
			Value(&confirmed)
		if err := prompt.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := ctx.Activities.Delete(activity); err != nil {
		return err
	}

	fmt.Printf("Deleted %q and %d completion record(s)\n", activity.DisplayTitle(), n)
	return nil
}
