package cli

import (
	"context"
	"io"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/store"

	log "github.com/sirupsen/logrus"
)

// session is one command's view of the board: the rehydrated coordinator plus the
// subscriber writing every change back to the store.
type session struct {
	Store store.StateStore
	Board *board.Coordinator
	Save  *board.AutoSave
	Log   *log.Logger

	closers []func() error
}

func openSession(app *App, logOut io.Writer) (*session, error) {
	logger, closeLog, err := newLogger(app, logOut)
	if err != nil {
		return nil, err
	}
	st, closeStore, err := openStore(app)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	s := &session{Store: st, Log: logger, closers: []func() error{closeStore, closeLog}}

	be, err := app.backend()
	if err != nil {
		s.Close()
		return nil, err
	}
	state, err := st.Load(context.Background())
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Board = board.New(state, board.Options{Backend: be, Logger: logger})
	s.Save = board.Persist(s.Board, st, logger)
	logger.WithField("tasks", len(state.Tasks)).Debug("board loaded")
	return s, nil
}

func (s *session) Close() {
	if s.Save != nil {
		s.Save.Close()
	}
	for _, c := range s.closers {
		_ = c()
	}
}

// actor returns the signed-in user or errNotSignedIn.
func (s *session) actor() (*model.UserProfile, error) {
	u := s.Board.Actor()
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

// persisted reports the first autosave failure, if any, after a mutation.
func (s *session) persisted() error {
	return s.Save.Err()
}
