package repository

import "errors"

var (
	ErrEntityNotFound     = errors.New("entity not found")
	ErrAssessmentNotFound = errors.New("assessment not found")
)
