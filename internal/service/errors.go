package service

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrGeneratorNotConfigured = errors.New("narrative generator is not configured")
	ErrAssessmentNotFound     = errors.New("assessment not found")
)
