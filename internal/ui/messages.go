package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yildizm/ResumeLens/internal/api"
	"github.com/yildizm/ResumeLens/internal/document"
	"github.com/yildizm/ResumeLens/internal/flow"
)

// Service is the subset of the analysis client the views call.
type Service interface {
	Submit(ctx context.Context, doc *document.Document) (*api.Record, error)
	ListHistory(ctx context.Context) ([]api.Summary, error)
	FetchDetail(ctx context.Context, id api.ID) (*api.Record, error)
}

// Every response message names the view instance that asked for it.
// Instances that were torn down never see their late responses.

type submitDoneMsg struct {
	instance int
	ticket   flow.Ticket
	record   *api.Record
	err      error
}

type historyLoadedMsg struct {
	instance int
	ticket   flow.Ticket
	list     []api.Summary
	err      error
}

type detailLoadedMsg struct {
	instance int
	overlay  int
	ticket   flow.Ticket
	record   *api.Record
	err      error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func submitCmd(ctx context.Context, svc Service, instance int, ticket flow.Ticket, doc *document.Document) tea.Cmd {
	return func() tea.Msg {
		rec, err := svc.Submit(ctx, doc)
		return submitDoneMsg{instance: instance, ticket: ticket, record: rec, err: err}
	}
}

func loadHistoryCmd(ctx context.Context, svc Service, instance int, ticket flow.Ticket) tea.Cmd {
	return func() tea.Msg {
		list, err := svc.ListHistory(ctx)
		return historyLoadedMsg{instance: instance, ticket: ticket, list: list, err: err}
	}
}

func fetchDetailCmd(ctx context.Context, svc Service, instance, overlay int, ticket flow.Ticket, id api.ID) tea.Cmd {
	return func() tea.Msg {
		rec, err := svc.FetchDetail(ctx, id)
		return detailLoadedMsg{instance: instance, overlay: overlay, ticket: ticket, record: rec, err: err}
	}
}
