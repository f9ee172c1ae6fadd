// Package rolodex is the Composition Root for the Rolodex contact manager.
//
// It connects the core business logic (contacts, meetings, classification) with
// the infrastructure adapters (snapshot files, Badger, Git) using the Hexagonal
// Architecture pattern.
//
// Meetings are never stored as "past" or "future". The kind is derived on every
// read by comparing the meeting date with the injected Clock, so a future meeting
// becomes past simply by letting time go by.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Atomic Mutations**: A failed write leaves the in-memory state untouched.
//   - **Default Adapter (FS + Git)**: A JSON or YAML snapshot, optionally versioned with Git.
//   - **Embedded KV**: Badger-backed storage via WithAdapter("badger").
//   - **Calendar Export**: ICS rendering of meetings (see pkg/adapters/ics).
//
// Usage:
//
//	svc, err := rolodex.New("./contacts",
//		rolodex.WithAutoInit(true),
//		rolodex.WithLogger(logger),
//	)
//
//	id, err := svc.AddContact(ctx, "Ada Lovelace", "met at the engine demo")
//	mid, err := svc.AddFutureMeeting(ctx, []int{id}, time.Now().Add(48*time.Hour))
package rolodex
