package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ActiveTasks returns copies of the tasks that are not soft-deleted,
// each carrying only its own non-deleted subtasks. Storage order is kept.
func (u *User) ActiveTasks() []Task {
	tasks := make([]Task, 0, len(u.Tasks))
	for _, task := range u.Tasks {
		if task.IsDeleted {
			continue
		}
		task.Subtasks = task.ActiveSubtasks()
		tasks = append(tasks, task)
	}
	return tasks
}

// ActiveSubtasks returns the subtasks of t that are not soft-deleted.
func (t *Task) ActiveSubtasks() []Subtask {
	subtasks := make([]Subtask, 0, len(t.Subtasks))
	for _, subtask := range t.Subtasks {
		if !subtask.IsDeleted {
			subtasks = append(subtasks, subtask)
		}
	}
	return subtasks
}

// DeletedSubtasks returns the tombstoned subtasks of t.
func (t *Task) DeletedSubtasks() []Subtask {
	var subtasks []Subtask
	for _, subtask := range t.Subtasks {
		if subtask.IsDeleted {
			subtasks = append(subtasks, subtask)
		}
	}
	return subtasks
}

// ActiveSubtasksOf looks up the task by id and returns its non-deleted
// subtasks. The task itself may be soft-deleted. ok is false when
// the task does not exist.
func (u *User) ActiveSubtasksOf(taskID primitive.ObjectID) (subtasks []Subtask, ok bool) {
	task := u.TaskByID(taskID)
	if task == nil {
		return nil, false
	}
	return task.ActiveSubtasks(), true
}
