package store_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mochapay/mocha/pkg/country"
	"github.com/mochapay/mocha/pkg/domain/session"
	"github.com/mochapay/mocha/pkg/store"
	"github.com/mochapay/mocha/pkg/transfer"
	"github.com/stretchr/testify/suite"
)

var epoch = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newSession(id string) *session.Session {
	draft := &transfer.Draft{Amount: "100", Currency: "USD", Fee: "1.00", Converted: "2350.00", Country: country.Default}
	return session.New(id, draft, epoch)
}

// StoreSuite runs the same contract against every Store implementation.
type StoreSuite struct {
	suite.Suite
	newStore func() store.Store
	store    store.Store
	ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *StoreSuite) TestCreateGet() {
	s.Require().NoError(s.store.Create(s.ctx, newSession("a")))

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("a", got.ID)
	s.Equal(session.StageForm, got.Stage)
	s.Equal("2350.00", got.Form.Draft.Converted)

	s.ErrorIs(s.store.Create(s.ctx, newSession("a")), store.ErrExists)

	_, err = s.store.Get(s.ctx, "missing")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestGetReturnsCopy() {
	s.Require().NoError(s.store.Create(s.ctx, newSession("a")))
	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	got.Stage = session.StageChat

	again, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(session.StageForm, again.Stage)
}

func (s *StoreSuite) TestUpdate() {
	s.Require().NoError(s.store.Create(s.ctx, newSession("a")))

	updated, err := s.store.Update(s.ctx, "a", func(sess *session.Session) error {
		sess.Stage = session.StagePayment
		sess.Touch(epoch.Add(time.Second))
		return nil
	})
	s.Require().NoError(err)
	s.Equal(session.StagePayment, updated.Stage)
	s.Equal(uint64(2), updated.Version)

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(session.StagePayment, got.Stage)
}

func (s *StoreSuite) TestUpdateErrorDiscardsChanges() {
	s.Require().NoError(s.store.Create(s.ctx, newSession("a")))
	boom := errors.New("boom")

	_, err := s.store.Update(s.ctx, "a", func(sess *session.Session) error {
		sess.Stage = session.StageChat
		return boom
	})
	s.ErrorIs(err, boom)

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(session.StageForm, got.Stage)

	_, err = s.store.Update(s.ctx, "missing", func(*session.Session) error { return nil })
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *StoreSuite) TestConcurrentUpdatesAreSerialised() {
	s.Require().NoError(s.store.Create(s.ctx, newSession("a")))

	const writers = 4
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Update(s.ctx, "a", func(sess *session.Session) error {
				sess.Touch(epoch)
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.store.Get(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(uint64(1+writers), got.Version)
}

func (s *StoreSuite) TestDelete() {
	s.Require().NoError(s.store.Create(s.ctx, newSession("a")))
	s.Require().NoError(s.store.Delete(s.ctx, "a"))

	_, err := s.store.Get(s.ctx, "a")
	s.ErrorIs(err, store.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, "a"), store.ErrNotFound)
}
