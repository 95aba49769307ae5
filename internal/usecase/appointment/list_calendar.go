package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbearia-console/internal/domain/appointment"
	"github.com/BruksfildServices01/barbearia-console/internal/httperr"
	"github.com/BruksfildServices01/barbearia-console/internal/timezone"
)

type ListCalendarInput struct {
	View   string
	Anchor string
}

type ListCalendar struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewListCalendar(
	repo domain.Repository,
	clock timezone.Clock,
) *ListCalendar {
	return &ListCalendar{
		repo:  repo,
		clock: clock,
	}
}

// Execute renders the day, week or month around Anchor (today when empty).
func (uc *ListCalendar) Execute(
	ctx context.Context,
	in ListCalendarInput,
) (*domain.Calendar, error) {

	mode, err := domain.ParseViewMode(in.View)
	if err != nil {
		return nil, err
	}

	now := uc.clock()
	anchor := timezone.StartOfDay(now)
	if in.Anchor != "" {
		anchor, err = timezone.ParseDate(in.Anchor, now.Location())
		if err != nil {
			return nil, httperr.ErrBusinessMsg("invalid_date_or_time", "Data inválida.")
		}
	}

	cal := domain.BuildCalendar(uc.repo.List(ctx), mode, anchor, now)
	return &cal, nil
}
