package utils

import "errors"

var (
	ErrorRecordNotFound  = errors.New("record not found")
	ErrorSessionNotFound = errors.New("session not found")
	ErrorUnknownScreen   = errors.New("unknown screen")
	ErrorUnknownAction   = errors.New("unknown action")
)
