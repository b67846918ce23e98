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

type itineraryService struct {
	items repository.ItemRepo
}

func NewItineraryService(items repository.ItemRepo) ItineraryService {
	return &itineraryService{items: items}
}

func (s *itineraryService) Create(ctx context.Context, i *domain.ItineraryItem) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Status == "" {
		i.Status = domain.ItemPending
	}
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	if err := i.Validate(); err != nil {
		return err
	}
	return s.items.Create(ctx, i)
}

func (s *itineraryService) GetByID(ctx context.Context, id string) (*domain.ItineraryItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *itineraryService) List(ctx context.Context) ([]*domain.ItineraryItem, error) {
	return s.items.List(ctx)
}

func (s *itineraryService) ListByReference(ctx context.Context, referenceID string) ([]*domain.ItineraryItem, error) {
	return s.items.ListByReference(ctx, referenceID)
}

// Upcoming expands every scheduled item into its concrete dates within the
// window. Items without a schedule contribute their due date when it falls
// inside the window.
func (s *itineraryService) Upcoming(ctx context.Context, windowStart, windowEnd time.Time) ([]UpcomingOccurrence, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, err
	}

	var out []UpcomingOccurrence
	for _, item := range items {
		if item.Status == domain.ItemCompleted || item.Status == domain.ItemCancelled {
			continue
		}
		if item.Schedule != nil {
			dates, err := occurrence.ExpandSchedule(*item.Schedule, windowStart, windowEnd)
			if err != nil {
				return nil, err
			}
			for _, d := range dates {
				out = append(out, UpcomingOccurrence{Item: item, At: d})
			}
			continue
		}
		if item.DueDate != nil && !item.DueDate.Before(windowStart) && !item.DueDate.After(windowEnd) {
			out = append(out, UpcomingOccurrence{Item: item, At: *item.DueDate})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].At.Equal(out[j].At) {
			return out[i].At.Before(out[j].At)
		}
		return out[i].Item.ID < out[j].Item.ID
	})
	return out, nil
}

func (s *itineraryService) Update(ctx context.Context, i *domain.ItineraryItem) error {
	i.UpdatedAt = time.Now().UTC()
	if err := i.Validate(); err != nil {
		return err
	}
	return s.items.Update(ctx, i)
}

func (s *itineraryService) SetStatus(ctx context.Context, id string, status domain.ItemStatus) error {
	return s.items.UpdateStatus(ctx, id, status)
}

func (s *itineraryService) Delete(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}
