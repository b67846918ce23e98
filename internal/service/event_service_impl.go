package service

import (
	"context"
	"sort"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/occurrence"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/google/uuid"
)

type eventService struct {
	events repository.EventRepo
}

func NewEventService(events repository.EventRepo) EventService {
	return &eventService{events: events}
}

func (s *eventService) Create(ctx context.Context, e *domain.CalendarEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := e.Validate(); err != nil {
		return err
	}
	return s.events.Create(ctx, e)
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	return s.events.GetByID(ctx, id)
}

func (s *eventService) List(ctx context.Context) ([]*domain.CalendarEvent, error) {
	return s.events.List(ctx)
}

func (s *eventService) Instances(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.CalendarEvent, error) {
	stored, err := s.events.ListInRange(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	var out []domain.CalendarEvent
	for _, ev := range stored {
		instances, err := occurrence.ExpandEvent(*ev, windowStart, windowEnd)
		if err != nil {
			return nil, err
		}
		out = append(out, instances...)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *eventService) Update(ctx context.Context, e *domain.CalendarEvent) error {
	e.UpdatedAt = time.Now().UTC()
	if err := e.Validate(); err != nil {
		return err
	}
	return s.events.Update(ctx, e)
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}
