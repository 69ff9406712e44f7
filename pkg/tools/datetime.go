package tools

import (
	"context"
	"fmt"
	"time"
)

// DateTimeTool reports the current date and time, optionally in a named
// IANA timezone.
type DateTimeTool struct {
	now func() time.Time
}

func NewDateTimeTool() *DateTimeTool {
	return &DateTimeTool{now: time.Now}
}

func (t *DateTimeTool) Name() string        { return "datetime" }
func (t *DateTimeTool) Kind() Kind          { return KindPure }
func (t *DateTimeTool) Description() string { return "Returns the current date and time" }

func (t *DateTimeTool) Invoke(_ context.Context, params map[string]string) (string, error) {
	now := t.now()

	if tz := params["timezone"]; tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return "", fmt.Errorf("datetime: unknown timezone %q", tz)
		}
		now = now.In(loc)
	}

	return now.Format("Monday, 2 January 2006, 15:04 MST"), nil
}
