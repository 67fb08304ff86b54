package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/aidrug/internal/controls"
)

// ErrUnknownView is returned when a view key is not part of the dashboard.
var ErrUnknownView = errors.New("unknown view")

// Service is the entry point used by the HTTP layer and the CLI. It ties
// the immutable dashboard to per-session selection state.
type Service struct {
	dataset   *Dataset
	dashboard *Dashboard
	sessions  *SessionStore
	keywords  *KeywordIndex
	exports   *ExportLimiter
}

// Options configures a Service.
type Options struct {
	Sessions     SessionConfig
	KeywordCount int

	// MaxConcurrentExports bounds parallel export builds (default: 4).
	MaxConcurrentExports int
}

// NewService creates a new Service over ds.
func NewService(ds *Dataset, ctrl *controls.Controls, opts Options) (*Service, error) {
	dash, err := NewDashboard(ds, ctrl)
	if err != nil {
		return nil, err
	}
	return &Service{
		dataset:   ds,
		dashboard: dash,
		sessions:  NewSessionStore(opts.Sessions),
		keywords:  BuildKeywordIndex(ds.Companies(), opts.KeywordCount),
		exports:   NewExportLimiter(opts.MaxConcurrentExports, DefaultExportWait),
	}, nil
}

// Dataset returns the loaded dataset.
func (s *Service) Dataset() *Dataset { return s.dataset }

// Dashboard returns the selection graph.
func (s *Service) Dashboard() *Dashboard { return s.dashboard }

// Controls returns the control vocabularies.
func (s *Service) Controls() *controls.Controls { return s.dashboard.Controls() }

// Sessions returns the session store.
func (s *Service) Sessions() *SessionStore { return s.sessions }

// Exports returns the export limiter.
func (s *Service) Exports() *ExportLimiter { return s.exports }

// CreateSession starts a session in the initial state and computes every
// view for it.
func (s *Service) CreateSession() (*Session, Cycle) {
	sess := s.sessions.Create(s.dashboard.Initial())
	cycle, _ := s.dashboard.Dispatch(sess.Selection(), Event{Type: EventRefresh})
	return sess, cycle
}

// Selection returns the current selection of a session.
func (s *Service) Selection(sessionID string) (Selection, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Selection{}, err
	}
	return sess.Selection(), nil
}

// Dispatch applies one event to a session and returns the recomputed views.
// A rejected event leaves the session untouched.
func (s *Service) Dispatch(sessionID string, ev Event) (Cycle, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return Cycle{}, err
	}

	var cycle Cycle
	err = sess.Update(func(sel Selection) (Selection, error) {
		c, err := s.dashboard.Dispatch(sel, ev)
		if err != nil {
			return sel, err
		}
		cycle = c
		return c.Selection, nil
	})
	if err != nil {
		return Cycle{}, fmt.Errorf("dispatch %s: %w", ev.Type, err)
	}
	return cycle, nil
}

// View computes one view for a session.
func (s *Service) View(sessionID string, key ViewKey) (ViewResult, error) {
	sel, err := s.Selection(sessionID)
	if err != nil {
		return ViewResult{}, err
	}
	v, ok := s.dashboard.View(sel, key)
	if !ok {
		return ViewResult{}, fmt.Errorf("%w: %s", ErrUnknownView, key)
	}
	return v, nil
}

// Table returns one page of the session's table view.
func (s *Service) Table(sessionID string, q TableQuery) (TablePage, error) {
	sel, err := s.Selection(sessionID)
	if err != nil {
		return TablePage{}, err
	}
	rows := s.dashboard.TableRows(sel)
	return Paginate(rows, s.Controls().TableColumns, q), nil
}

// ExportRows returns every row of the session's table view after column
// filters and sorting, for CSV or spreadsheet export.
func (s *Service) ExportRows(sessionID string, q TableQuery) ([]Company, error) {
	sel, err := s.Selection(sessionID)
	if err != nil {
		return nil, err
	}
	rows := ApplyColumnFilters(s.dashboard.TableRows(sel), q.Filters)
	rows = append([]Company(nil), rows...)
	SortRows(rows, q.Sorts)
	return rows, nil
}

// Keywords returns the top free-text terms for a category.
func (s *Service) Keywords(category string) []Keyword {
	return s.keywords.Top(category)
}

// RunSweeper evicts idle sessions until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context) error {
	return s.sessions.Run(ctx)
}
