package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "inprogress"
	StatusCompleted  TaskStatus = "completed"
)

var (
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDeadline = errors.New("invalid date format")
	ErrEmptySubject    = errors.New("subject is required")
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// Layouts accepted for deadlines, tried in order.
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
	"2006/01/02",
}

// ParseDeadline parses a user supplied deadline. It returns
// ErrInvalidDeadline if none of the supported layouts match.
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, value)
}

type Task struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Subject   string             `bson:"subject" json:"subject"`
	Deadline  time.Time          `bson:"deadline" json:"deadline"`
	Status    TaskStatus         `bson:"status" json:"status"`
	IsDeleted bool               `bson:"isDeleted" json:"isDeleted"`
	Subtasks  []Subtask          `bson:"subtasks" json:"subtasks"`
}

type Subtask struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Subject   string             `bson:"subject" json:"subject"`
	Deadline  time.Time          `bson:"deadline" json:"deadline"`
	Status    TaskStatus         `bson:"status" json:"status"`
	IsDeleted bool               `bson:"isDeleted" json:"isDeleted"`
}

func NewTask(subject string, deadline time.Time, status TaskStatus) Task {
	return Task{
		ID:       primitive.NewObjectID(),
		Subject:  subject,
		Deadline: deadline,
		Status:   status,
		Subtasks: []Subtask{},
	}
}

func NewSubtask(subject string, deadline time.Time, status TaskStatus) Subtask {
	return Subtask{
		ID:       primitive.NewObjectID(),
		Subject:  subject,
		Deadline: deadline,
		Status:   status,
	}
}

// Validate checks the fields every stored task must carry.
// Subtasks are validated as well.
func (t *Task) Validate() error {
	if err := validateItem(t.Subject, t.Deadline, t.Status); err != nil {
		return fmt.Errorf("task %s: %w", t.ID.Hex(), err)
	}
	for i := range t.Subtasks {
		if err := t.Subtasks[i].Validate(); err != nil {
			return fmt.Errorf("task %s: %w", t.ID.Hex(), err)
		}
	}
	return nil
}

func (s *Subtask) Validate() error {
	if err := validateItem(s.Subject, s.Deadline, s.Status); err != nil {
		return fmt.Errorf("subtask %s: %w", s.ID.Hex(), err)
	}
	return nil
}

func validateItem(subject string, deadline time.Time, status TaskStatus) error {
	if subject == "" {
		return ErrEmptySubject
	}
	if deadline.IsZero() {
		return ErrInvalidDeadline
	}
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return nil
}

// SubtaskByID returns a pointer into t.Subtasks so callers can
// mutate the element in place.
func (t *Task) SubtaskByID(id primitive.ObjectID) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i]
		}
	}
	return nil
}
