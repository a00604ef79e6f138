package sync

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/Zahumennov/contacs-updater/internal/nimble"
)

// Source delivers the parsed external snapshot for one cycle.
type Source interface {
	FetchContacts(ctx context.Context) ([]nimble.Contact, error)
}

// ContactStore is the write path the reconciler needs from storage.
type ContactStore interface {
	Exists(ctx context.Context, firstName, lastName, email *string) (bool, error)
	Insert(ctx context.Context, firstName, lastName, email *string) (int64, error)
}

type Syncer struct {
	Feed  Source
	Store ContactStore
}

func NewSyncer(feed Source, store ContactStore) *Syncer {
	return &Syncer{Feed: feed, Store: store}
}

// RunOnce performs one sync cycle: fetch, parse, reconcile. A feed failure
// or an empty snapshot ends the cycle quietly; the next tick retries.
func (s *Syncer) RunOnce(ctx context.Context) error {
	runID := uuid.NewString()

	records, err := s.Feed.FetchContacts(ctx)
	if err != nil {
		log.Printf("sync %s: feed fetch failed, skipping cycle: %v", runID, err)
		return nil
	}
	if len(records) == 0 {
		log.Printf("sync %s: feed returned no records", runID)
		return nil
	}

	inserted, err := s.Reconcile(ctx, records)
	if err != nil {
		log.Printf("sync %s: reconcile aborted after %d inserts: %v", runID, inserted, err)
		return fmt.Errorf("reconcile: %w", err)
	}

	log.Printf("sync %s: reconciled %d records, %d new", runID, len(records), inserted)
	return nil
}

// Reconcile merges the snapshot into storage, inserting only records whose
// (first_name, last_name, email) triple is not already stored. A nil field
// is matched against NULL only. Known contacts are skipped, never updated.
// A storage error aborts the remainder of the pass; the count of inserts
// applied before the error is returned with it.
func (s *Syncer) Reconcile(ctx context.Context, records []nimble.Contact) (int, error) {
	inserted := 0
	for _, rec := range records {
		exists, err := s.Store.Exists(ctx, rec.FirstName, rec.LastName, rec.Email)
		if err != nil {
			return inserted, err
		}
		if exists {
			continue
		}
		if _, err := s.Store.Insert(ctx, rec.FirstName, rec.LastName, rec.Email); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
