package service

import "errors"

var (
	// ErrConfirmationRequired is returned by destructive operations called
	// without confirmation. Nothing is changed.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrSystemProject is returned when a project edit targets the
	// system-generated renewals project.
	ErrSystemProject = errors.New("system-generated project cannot be edited")

	ErrProjectNotFound      = errors.New("project not found")
	ErrActionNotFound       = errors.New("action not found")
	ErrCustomActionNotFound = errors.New("custom action not found")
	// ErrAlreadyImported is returned when seed data is imported into a store
	// that already holds user projects.
	ErrAlreadyImported = errors.New("store already contains projects")
)
