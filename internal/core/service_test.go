package core

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/aidrug/internal/controls"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(fixtureDataset(), controls.Default(), Options{})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestService_CreateSession(t *testing.T) {
	svc := newTestService(t)
	sess, cycle := svc.CreateSession()

	if sess.ID == "" {
		t.Fatal("empty session ID")
	}
	if len(cycle.Views) != len(svc.Dashboard().ViewKeys()) {
		t.Errorf("initial views = %d, want %d", len(cycle.Views), len(svc.Dashboard().ViewKeys()))
	}
	if svc.Sessions().Len() != 1 {
		t.Errorf("Sessions().Len() = %d, want 1", svc.Sessions().Len())
	}
}

func TestService_DispatchPersistsSelection(t *testing.T) {
	svc := newTestService(t)
	sess, _ := svc.CreateSession()

	if _, err := svc.Dispatch(sess.ID, Event{Type: EventClickCategory, Value: catDesign}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	sel, err := svc.Selection(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Category != catDesign {
		t.Errorf("Category = %q, want %q", sel.Category, catDesign)
	}

	_, err = svc.Dispatch(sess.ID, Event{Type: "bogus"})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Dispatch(bogus) error = %v, want ErrInvalidEvent", err)
	}
	if sel, _ := svc.Selection(sess.ID); sel.Category != catDesign {
		t.Errorf("rejected event changed Category to %q", sel.Category)
	}
}

func TestService_UnknownSession(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Dispatch("nope", Event{Type: EventRefresh}); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Dispatch() error = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.View("nope", ViewTable); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("View() error = %v, want ErrSessionNotFound", err)
	}
}

func TestService_ViewAndTable(t *testing.T) {
	svc := newTestService(t)
	sess, _ := svc.CreateSession()

	if _, err := svc.View(sess.ID, "nope"); !errors.Is(err, ErrUnknownView) {
		t.Errorf("View(nope) error = %v, want ErrUnknownView", err)
	}

	if _, err := svc.Dispatch(sess.ID, Event{Type: EventClickMap, Value: "Boston"}); err != nil {
		t.Fatal(err)
	}
	page, err := svc.Table(sess.ID, TableQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", page.TotalRows)
	}
	if len(page.Columns) != len(svc.Controls().TableColumns) {
		t.Errorf("Columns = %v", page.Columns)
	}

	rows, err := svc.ExportRows(sess.ID, TableQuery{Sorts: []SortSpec{{Column: ColCompanyName, Dir: "desc"}}})
	if err != nil {
		t.Fatal(err)
	}
	if got := names(rows); len(got) != 2 || got[0] != "Zeta" {
		t.Errorf("ExportRows() = %v, want [Zeta Gamma]", got)
	}
}

func TestService_Keywords(t *testing.T) {
	svc := newTestService(t)
	if len(svc.Keywords("All")) == 0 {
		t.Error("Keywords(All) is empty")
	}
}
