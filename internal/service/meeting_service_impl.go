package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/planning"
	"github.com/alexanderramin/hearth/internal/repository"
)

type meetingService struct {
	meetings repository.MeetingRepo
}

func NewMeetingService(meetings repository.MeetingRepo) MeetingService {
	return &meetingService{meetings: meetings}
}

func (s *meetingService) Get(ctx context.Context) (*domain.WeeklyMeeting, error) {
	m, err := s.meetings.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.DefaultWeeklyMeeting(), nil
		}
		return nil, err
	}
	return m, nil
}

func (s *meetingService) Set(ctx context.Context, m *domain.WeeklyMeeting) error {
	if err := m.Validate(); err != nil {
		return err
	}
	// Preserve the completion stamp across config edits.
	if existing, err := s.meetings.Get(ctx); err == nil {
		m.LastCompleted = existing.LastCompleted
	}
	m.UpdatedAt = time.Now().UTC()
	return s.meetings.Upsert(ctx, m)
}

func (s *meetingService) Seed(ctx context.Context, dayOfWeek int, preferredTime string) error {
	_, err := s.meetings.Get(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	m := domain.DefaultWeeklyMeeting()
	m.DayOfWeek = dayOfWeek
	m.PreferredTime = preferredTime
	if err := m.Validate(); err != nil {
		return fmt.Errorf("seeding weekly meeting: %w", err)
	}
	m.UpdatedAt = time.Now().UTC()
	return s.meetings.Upsert(ctx, m)
}

func (s *meetingService) IsReviewNeeded(ctx context.Context, today time.Time) (bool, error) {
	m, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return planning.IsWeeklyReviewNeeded(m.LastCompleted, today), nil
}
