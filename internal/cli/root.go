package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nickholt/routine/internal/history"
	"github.com/nickholt/routine/internal/logger"
	"github.com/nickholt/routine/internal/models"
	"github.com/nickholt/routine/internal/storage"
	"github.com/nickholt/routine/internal/store"
)

// Context carries the wired stores into command Run methods.
type Context struct {
	Backend storage.Backend
	Debug   bool

	Activities  *store.ActivityStore
	Completions *store.CompletionStore
	History     *history.CompletionHistory

	opened bool
}

// Open loads the backend and builds the stores: fetch everything into the
// in-memory mirror, purge dangling completions, backfill the days since the
// program last ran, and record the new last-active stamp. A fetch failure
// here is unrecoverable; commands propagate it and the process exits.
func (c *Context) Open() error {
	if c.opened {
		return nil
	}

	if err := c.Backend.Load(); err != nil {
		return err
	}

	c.Completions = store.NewCompletionStore(c.Backend)
	c.Activities = store.NewActivityStore(c.Backend, c.Completions)
	c.History = history.New(c.Activities, c.Completions)

	if err := c.Activities.Load(); err != nil {
		logger.Error("Failed to load activities; cannot continue", "error", err)
		return err
	}
	if err := c.Completions.Load(); err != nil {
		logger.Error("Failed to load completions; cannot continue", "error", err)
		return err
	}

	if _, err := c.Completions.PurgeDangling(c.Activities.Contains); err != nil {
		return err
	}

	if err := c.scrubSinceLastActive(); err != nil {
		return err
	}

	c.opened = true
	return nil
}

// scrubSinceLastActive backfills not-completed records for every scheduled
// day between the last run and today, then records the new stamp.
func (c *Context) scrubSinceLastActive() error {
	settings, err := c.Backend.GetSettings()
	if err != nil {
		return err
	}

	if settings.LastActive != nil {
		from := models.DayOf(*settings.LastActive)
		if err := c.History.Scrub(from, models.Today()); err != nil {
			return err
		}
	}

	now := time.Now()
	settings.LastActive = &now
	return c.Backend.SaveSettings(settings)
}

// resolveActivity finds a live activity by exact title, then by ID prefix.
func (c *Context) resolveActivity(ref string) (*models.Activity, error) {
	if a, ok := c.Activities.Get(ref); ok {
		return a, nil
	}

	var byTitle, byPrefix []*models.Activity
	for _, a := range c.Activities.All() {
		if strings.EqualFold(a.Title, ref) {
			byTitle = append(byTitle, a)
		}
		if strings.HasPrefix(a.ID, ref) {
			byPrefix = append(byPrefix, a)
		}
	}

	switch {
	case len(byTitle) == 1:
		return byTitle[0], nil
	case len(byTitle) > 1:
		return nil, fmt.Errorf("multiple activities titled %q; use the ID instead", ref)
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byPrefix) > 1:
		return nil, fmt.Errorf("ambiguous activity ID prefix %q", ref)
	default:
		return nil, fmt.Errorf("no activity matching %q", ref)
	}
}

// parseDayFlag interprets an optional --on style value, defaulting to today.
func parseDayFlag(v string) (models.Day, error) {
	if v == "" || v == "today" {
		return models.Today(), nil
	}
	if v == "yesterday" {
		return models.Today().AddDays(-1), nil
	}
	return models.ParseDay(v)
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	missedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	excusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func statusGlyph(status models.Status) string {
	switch status {
	case models.StatusCompleted:
		return completedStyle.Render("✓")
	case models.StatusNotCompleted:
		return missedStyle.Render("✗")
	case models.StatusExcused:
		return excusedStyle.Render("–")
	default:
		return "?"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
