package service

import "errors"

var (
	// ErrNotFound - запись не существует или мягко удалена
	ErrNotFound = errors.New("file not found")
	// ErrEmptyFile - загрузка с пустым содержимым
	ErrEmptyFile = errors.New("file is empty")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
