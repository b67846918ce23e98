// Package reminder schedules recurring callbacks around the household's
// planning rhythm, such as the weekly meeting nudge.
package reminder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/alexanderramin/hearth/internal/domain"
)

// defaultMeetingHour is used when the meeting config has no preferred time.
const defaultMeetingHour = 9

// Reminder provides cron-based scheduling for planning reminders.
type Reminder struct {
	cron *cron.Cron
}

// New creates and starts a reminder scheduler.
func New() *Reminder {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(cron.WithParser(parser), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	c.Start()
	return &Reminder{cron: c}
}

// ScheduleWeeklyMeeting registers task to fire at the household's meeting
// time each week. It returns an error if the meeting config is malformed.
func (r *Reminder) ScheduleWeeklyMeeting(meeting *domain.WeeklyMeeting, task func()) error {
	expr, err := MeetingCronSpec(meeting)
	if err != nil {
		return err
	}
	_, err = r.cron.AddFunc(expr, task)
	return err
}

// AddJob schedules a task using a raw cron expression.
func (r *Reminder) AddJob(expr string, task func()) error {
	_, err := r.cron.AddFunc(expr, task)
	return err
}

// Stop stops the scheduler and waits for running jobs to finish.
func (r *Reminder) Stop() {
	r.cron.Stop()
}

// MeetingCronSpec renders a weekly meeting config as a 5-field cron
// expression. A config without a preferred time fires at 09:00.
func MeetingCronSpec(meeting *domain.WeeklyMeeting) (string, error) {
	if err := meeting.Validate(); err != nil {
		return "", err
	}

	hour, minute := defaultMeetingHour, 0
	if meeting.PreferredTime != "" {
		parts := strings.SplitN(meeting.PreferredTime, ":", 2)
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return "", fmt.Errorf("parsing meeting hour from %q: %w", meeting.PreferredTime, err)
		}
		m, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", fmt.Errorf("parsing meeting minute from %q: %w", meeting.PreferredTime, err)
		}
		hour, minute = h, m
	}

	return fmt.Sprintf("%d %d * * %d", minute, hour, meeting.DayOfWeek), nil
}
