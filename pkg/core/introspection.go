package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Contacts       int    `json:"contacts"`
	FutureMeetings int    `json:"future_meetings"`
	PastMeetings   int    `json:"past_meetings"`
	ReadOnly       bool   `json:"read_only"`
	RepositoryType string `json:"repository_type"`
	Repository     any    `json:"repository,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	repoType := "memory"
	var repoState any
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
		if in, ok := s.repo.(introspection.Introspectable); ok {
			repoState = in.State()
		}
	}

	future, past := s.meetings.Count()
	return ServiceState{
		Contacts:       s.contacts.Len(),
		FutureMeetings: future,
		PastMeetings:   past,
		ReadOnly:       s.readOnly,
		RepositoryType: repoType,
		Repository:     repoState,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
