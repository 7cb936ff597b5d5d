package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Tasks []Task             `bson:"tasks" json:"tasks"`
	// Version is bumped on every whole-document save.
	Version int64 `bson:"version" json:"-"`
}

func NewUser(name, email string) *User {
	return &User{
		ID:    primitive.NewObjectID(),
		Name:  name,
		Email: email,
		Tasks: []Task{},
	}
}

// TaskByID returns a pointer into u.Tasks so callers can
// mutate the element in place.
func (u *User) TaskByID(id primitive.ObjectID) *Task {
	for i := range u.Tasks {
		if u.Tasks[i].ID == id {
			return &u.Tasks[i]
		}
	}
	return nil
}

// Validate checks every embedded task and subtask.
func (u *User) Validate() error {
	for i := range u.Tasks {
		if err := u.Tasks[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
