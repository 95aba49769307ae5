package datasync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
	"github.com/BruksfildServices01/barbearia-console/internal/storage"
)

type ActivityInput struct {
	Type        string
	Title       string
	Description string
}

// AddRecentActivity stamps the activity with the current time and keeps the
// 50 newest.
func (e *Engine) AddRecentActivity(ctx context.Context, in ActivityInput) models.Activity {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := models.Activity{
		ID:          uuid.NewString(),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Time:        e.clock(),
	}

	if list, ok := load(ctx, e, KeyRecentActivities, []models.Activity{}); ok {
		e.UpdateData(ctx, KeyRecentActivities, prepend(list, a, MaxRecentActivities))
	}
	return a
}

// RecentActivities returns the feed newest first with DisplayTime computed
// against the current time.
func (e *Engine) RecentActivities(ctx context.Context) []models.Activity {
	list := storage.Get(ctx, e.store, KeyRecentActivities, []models.Activity{})
	now := e.clock()
	for i := range list {
		list[i].DisplayTime = RelativeTime(list[i].Time, now)
	}
	return list
}

// RelativeTime renders how long ago t was, in Portuguese.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	minutes := int(d / time.Minute)
	if minutes < 1 {
		return "Agora mesmo"
	}
	if minutes < 60 {
		return fmt.Sprintf("Há %d minuto%s", minutes, plural(minutes))
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("Há %d hora%s", hours, plural(hours))
	}
	days := hours / 24
	return fmt.Sprintf("Há %d dia%s", days, plural(days))
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
