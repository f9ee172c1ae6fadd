package core

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type newContact struct {
	Name  string `validate:"required"`
	Notes string `validate:"required"`
}

// Registry holds contact records and allocates their ids.
// It is not safe for concurrent use.
type Registry struct {
	contacts map[int]Contact
	nextID   int
}

// NewRegistry creates an empty registry. Ids start at 1.
func NewRegistry() *Registry {
	return &Registry{
		contacts: make(map[int]Contact),
		nextID:   1,
	}
}

// RestoreRegistry rebuilds a registry from persisted contacts.
// The id counter resumes after the highest restored id.
func RestoreRegistry(contacts []Contact) (*Registry, error) {
	r := NewRegistry()
	for _, c := range contacts {
		if c.ID <= 0 {
			return nil, fmt.Errorf("%w: contact id %d", ErrInvalidArgument, c.ID)
		}
		if _, dup := r.contacts[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate contact id %d", ErrInvalidArgument, c.ID)
		}
		r.contacts[c.ID] = c
		r.nextID = max(r.nextID, c.ID+1)
	}
	return r, nil
}

// AddContact registers a new contact and returns its id.
func (r *Registry) AddContact(name, notes string) (int, error) {
	if err := validate.Struct(newContact{Name: name, Notes: notes}); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	id := r.nextID
	r.contacts[id] = Contact{ID: id, Name: name, Notes: notes}
	r.nextID++
	return id, nil
}

// GetContacts returns the contacts with the given ids, ascending by id.
// With no ids it lists every contact. A single unknown id fails the whole call.
func (r *Registry) GetContacts(ids ...int) ([]Contact, error) {
	if len(ids) == 0 {
		return r.sorted(lo.Values(r.contacts)), nil
	}

	out := make([]Contact, 0, len(ids))
	for _, id := range lo.Uniq(ids) {
		c, ok := r.contacts[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown contact id %d", ErrInvalidArgument, id)
		}
		out = append(out, c)
	}
	return r.sorted(out), nil
}

// FindContacts returns contacts whose name contains the given fragment.
// An empty fragment matches everyone.
func (r *Registry) FindContacts(name string) []Contact {
	return r.sorted(lo.Filter(lo.Values(r.contacts), func(c Contact, _ int) bool {
		return strings.Contains(c.Name, name)
	}))
}

// Exists reports whether a contact with this id is registered.
func (r *Registry) Exists(id int) bool {
	_, ok := r.contacts[id]
	return ok
}

// Len returns the number of registered contacts.
func (r *Registry) Len() int {
	return len(r.contacts)
}

func (r *Registry) sorted(contacts []Contact) []Contact {
	slices.SortFunc(contacts, func(a, b Contact) int { return a.ID - b.ID })
	return contacts
}
