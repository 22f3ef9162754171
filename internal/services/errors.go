package services

import "errors"

var (
  ErrValidation             = errors.New("validation failed")
  ErrNotFound               = errors.New("not found")
  ErrInvalidCredentials     = errors.New("invalid email or password")
  ErrUnauthenticated        = errors.New("not signed in")
  ErrConversationNotFound   = errors.New("conversation not found")
  ErrConversationClosed     = errors.New("conversation has been handed off")
  ErrTurnInFlight           = errors.New("a message for this conversation is already being processed")
)
