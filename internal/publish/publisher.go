// Package publish is the persistence/consistency engine for routes: it fans
// a canonical record out across the visibility collections and drives the
// cross-collection deletion chain. Creation is deliberately uncoordinated,
// no operation waits on a sibling and nothing rolls back, so a route can
// legitimately end up in one collection, or without a photo, and stay that
// way.
package publish

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"trailpost/internal/models"
	"trailpost/internal/normalize"
	"trailpost/internal/photos"
	"trailpost/internal/store"
)

// Op identifies one of the independent operations a publication dispatches.
type Op string

const (
	OpCreateUserCopy      Op = "create_user_copy"
	OpCreateCommunityCopy Op = "create_community_copy"
	OpPhotoUpload         Op = "photo_upload"
)

// Outcome is the per-operation result. Success and failure are reported
// independently; a failed sibling never undoes a successful one.
type Outcome struct {
	Op         Op
	Collection string // set for creates
	DocID      string // set on successful creates
	Err        error
}

// Receipt delivers the outcomes of one publication. The channel is closed
// once every dispatched operation has reported.
type Receipt struct {
	outcomes chan Outcome
}

// Outcomes returns the delivery channel.
func (r *Receipt) Outcomes() <-chan Outcome {
	return r.outcomes
}

// Wait collects every outcome. It is a convenience for tests and callers
// that do want to block; the creation flow itself never calls it.
func (r *Receipt) Wait() []Outcome {
	var all []Outcome
	for o := range r.outcomes {
		all = append(all, o)
	}
	return all
}

// Publisher persists a normalized route and its photo according to scope.
type Publisher struct {
	Store  store.Client
	Photos *photos.Service
}

func NewPublisher(st store.Client, ph *photos.Service) *Publisher {
	return &Publisher{Store: st, Photos: ph}
}

// Publish dispatches the create into user_routes, the create into
// community_routes when the scope is public, and the photo upload, each on
// its own goroutine, none waiting on another. It returns immediately; the
// operations run on background contexts and outlive the caller.
//
// A public route only reaches community_routes via this duplication, so a
// community copy never exists without a same-user creation into user_routes
// having been dispatched, though either create may individually fail.
func (p *Publisher) Publish(rec models.RouteRecord, scope normalize.Scope, photo []byte) *Receipt {
	ops := 2 // user copy + photo
	if scope == normalize.ScopePublic {
		ops++
	}
	receipt := &Receipt{outcomes: make(chan Outcome, ops)}

	var wg sync.WaitGroup
	wg.Add(ops)

	go func() {
		defer wg.Done()
		receipt.outcomes <- p.create(OpCreateUserCopy, store.CollectionUser, rec)
	}()
	if scope == normalize.ScopePublic {
		go func() {
			defer wg.Done()
			receipt.outcomes <- p.create(OpCreateCommunityCopy, store.CollectionCommunity, rec)
		}()
	}
	go func() {
		defer wg.Done()
		receipt.outcomes <- p.uploadPhoto(rec.Title, photo)
	}()

	go func() {
		wg.Wait()
		close(receipt.outcomes)
	}()
	return receipt
}

func (p *Publisher) create(op Op, collection string, rec models.RouteRecord) Outcome {
	id, err := p.Store.Create(context.Background(), collection, rec)
	if err != nil {
		logrus.WithError(err).WithField("collection", collection).
			Error("failed to add route")
		return Outcome{Op: op, Collection: collection, Err: err}
	}
	logrus.WithFields(logrus.Fields{
		"collection": collection,
		"id":         id,
		"title":      rec.Title,
	}).Info("route added")
	return Outcome{Op: op, Collection: collection, DocID: id}
}

func (p *Publisher) uploadPhoto(title string, photo []byte) Outcome {
	err := p.Photos.Upload(context.Background(), title, photo)
	if err != nil {
		logrus.WithError(err).WithField("title", title).
			Error("failed to upload route photo")
		return Outcome{Op: OpPhotoUpload, Err: err}
	}
	logrus.WithField("key", photos.Key(title)).Info("route photo uploaded")
	return Outcome{Op: OpPhotoUpload}
}
