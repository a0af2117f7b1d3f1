// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tui implements the interactive reading-room browser. One
// section is visible at a time; every switch away from a section
// discards its transient state, so coming back always re-fetches.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marginalia-reads/marginalia/pkg/bookclub"
	"github.com/marginalia-reads/marginalia/pkg/logging"
	"github.com/marginalia-reads/marginalia/pkg/session"
)

// Section identifies which view currently owns the screen.
type Section int

const (
	SectionCatalog Section = iota
	SectionSearch
	SectionMyReviews
	SectionDetail
)

// composerMode selects whether submitting the review editor creates a
// new review or replaces the user's existing one.
type composerMode int

const (
	composerCreate composerMode = iota
	composerUpdate
)

// Model is the root bubbletea model for the browser.
//
// # Description
//
//	Holds the active section, the data backing each view, and the
//	transient editor state. All server access goes through svc; the
//	model never builds HTTP requests itself.
type Model struct {
	svc    bookclub.ReviewService
	state  *session.State
	logger *logging.Logger

	section Section
	width   int
	height  int
	spinner spinner.Model
	loading bool

	// status holds the most recent server message or error, shown in
	// the footer until the next action replaces it.
	status    string
	statusErr bool

	// Catalog and search sections.
	books         []bookclub.Book
	searchResults []bookclub.Book
	searchInput   textinput.Model
	searchKind    bookclub.SearchKind
	searchRan     bool
	cursor        int

	// Login overlay.
	loginActive   bool
	loginFocus    int
	usernameInput textinput.Model
	passwordInput textinput.Model

	// Detail section.
	detailBook   bookclub.Book
	reviews      []bookclub.Review
	reviewCursor int
	composer     textarea.Model
	composerMode composerMode
	editorOpen   bool

	// My-reviews section.
	mine []bookclub.UserReview

	// Delete confirmation modal.
	confirmActive bool
	confirmISBN   string

	quitting bool
}

// New builds the browser model around an API client and session state.
func New(svc bookclub.ReviewService, state *session.State, logger *logging.Logger) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))

	search := textinput.New()
	search.Placeholder = "search the catalog"
	search.CharLimit = 120

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword

	composer := textarea.New()
	composer.Placeholder = "write your review"
	composer.SetHeight(4)
	composer.CharLimit = 2000

	return &Model{
		svc:           svc,
		state:         state,
		logger:        logger,
		section:       SectionCatalog,
		spinner:       sp,
		searchInput:   search,
		searchKind:    bookclub.SearchTitle,
		usernameInput: user,
		passwordInput: pass,
		composer:      composer,
	}
}

func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.spinner.Tick, m.loadCatalogCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = min(msg.Width-20, 60)
		m.composer.SetWidth(min(msg.Width-8, 76))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case catalogLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.books = msg.books
		m.cursor = 0
		return m, nil

	case searchDoneMsg:
		m.loading = false
		m.searchRan = true
		if msg.err != nil {
			m.setError(msg.err)
			m.searchResults = nil
			return m, nil
		}
		m.status = ""
		m.searchResults = msg.books
		m.cursor = 0
		return m, nil

	case bookOpenedMsg:
		if msg.err != nil {
			m.loading = false
			m.setError(msg.err)
			return m, nil
		}
		// Reset the editor before the reviews arrive so a stale draft
		// from the previous book can never survive into this one.
		m.detailBook = msg.book
		m.resetComposer()
		m.reviews = nil
		m.reviewCursor = 0
		m.state.SelectBook(msg.book, nil)
		m.section = SectionDetail
		return m, m.loadReviewsCmd(msg.book.ISBN)

	case reviewsLoadedMsg:
		m.loading = false
		if msg.isbn != m.detailBook.ISBN {
			// A stale fetch for a book no longer on screen.
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.reviews = msg.reviews
		m.reviewCursor = 0
		m.state.UpdateReviews(msg.reviews)
		m.primeComposerFromOwnReview()
		return m, nil

	case loginDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if err := m.state.Login(msg.username, msg.token); err != nil {
			m.setError(err)
			return m, nil
		}
		m.logger.Info("session established", "username", msg.username)
		m.closeLogin()
		m.setOK("Logged in as " + msg.username)
		if m.section == SectionDetail {
			m.primeComposerFromOwnReview()
		}
		return m, nil

	case registerDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		if msg.result.OK {
			m.setOK(msg.result.Message)
		} else {
			m.status = msg.result.Message
			m.statusErr = true
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.loading = false
			m.setError(msg.err)
			return m, nil
		}
		if msg.result.OK {
			m.setOK(msg.result.Message)
		} else {
			m.status = msg.result.Message
			m.statusErr = true
		}
		// The server response is only a receipt; re-fetch to show the
		// authoritative review list.
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadReviewsCmd(msg.isbn))

	case userReviewsMsg:
		m.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.mine = msg.items
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

// handleKey routes key presses by overlay first, then by section.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.confirmActive {
		return m.handleConfirmKey(msg)
	}
	if m.loginActive {
		return m.handleLoginKey(msg)
	}
	if m.editorOpen {
		return m.handleComposerKey(msg)
	}
	if m.section == SectionSearch && m.searchInput.Focused() {
		return m.handleSearchInputKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "1":
		return m.switchSection(SectionCatalog)
	case "2":
		return m.switchSection(SectionSearch)
	case "3":
		return m.switchSection(SectionMyReviews)
	case "l":
		if !m.state.Authenticated() {
			m.openLogin()
		}
		return m, nil
	case "o":
		if m.state.Authenticated() {
			m.state.Logout()
			m.setOK("Logged out")
			return m.switchSection(SectionCatalog)
		}
		return m, nil
	}

	switch m.section {
	case SectionCatalog:
		return m.handleListKey(msg, m.books)
	case SectionSearch:
		return m.handleSearchKey(msg)
	case SectionMyReviews:
		return m.handleMyReviewsKey(msg)
	case SectionDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// switchSection discards the outgoing section's transient state and
// kicks off whatever fetch the incoming section needs.
func (m *Model) switchSection(next Section) (tea.Model, tea.Cmd) {
	m.cursor = 0
	m.status = ""
	m.statusErr = false
	m.editorOpen = false
	m.composer.Blur()
	m.section = next

	switch next {
	case SectionCatalog:
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadCatalogCmd())
	case SectionSearch:
		m.searchResults = nil
		m.searchRan = false
		m.searchInput.Reset()
		m.searchInput.Focus()
		return m, textinput.Blink
	case SectionMyReviews:
		m.mine = nil
		if !m.state.Authenticated() {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadUserReviewsCmd(m.state.Username()))
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg, items []bookclub.Book) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(items) {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.openBookCmd(items[m.cursor].ISBN))
		}
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/", "i":
		m.searchInput.Focus()
		return m, textinput.Blink
	case "tab":
		m.cycleSearchKind()
		return m, nil
	}
	return m.handleListKey(msg, m.searchResults)
}

func (m *Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		return m, nil
	case "tab":
		m.cycleSearchKind()
		return m, nil
	case "enter":
		m.searchInput.Blur()
		m.loading = true
		return m, tea.Batch(m.spinner.Tick,
			m.searchCmd(m.searchKind, m.searchInput.Value()))
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) cycleSearchKind() {
	switch m.searchKind {
	case bookclub.SearchTitle:
		m.searchKind = bookclub.SearchAuthor
	case bookclub.SearchAuthor:
		m.searchKind = bookclub.SearchISBN
	default:
		m.searchKind = bookclub.SearchTitle
	}
}

func (m *Model) handleMyReviewsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.mine)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.mine) {
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.openBookCmd(m.mine[m.cursor].ISBN))
		}
	}
	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b":
		m.state.ClearSelection()
		return m.switchSection(SectionCatalog)
	case "up", "k":
		if m.reviewCursor > 0 {
			m.reviewCursor--
		}
	case "down", "j":
		if m.reviewCursor < len(m.reviews)-1 {
			m.reviewCursor++
		}
	case "c", "e":
		if !m.state.Authenticated() {
			m.status = "Please login to submit a review"
			m.statusErr = true
			return m, nil
		}
		m.editorOpen = true
		m.composer.Focus()
		return m, textarea.Blink
	case "d":
		if !m.state.Authenticated() {
			m.status = "Please login to delete a review"
			m.statusErr = true
			return m, nil
		}
		if m.ownReview() == nil {
			m.status = "You have no review on this book"
			m.statusErr = true
			return m, nil
		}
		m.confirmActive = true
		m.confirmISBN = m.detailBook.ISBN
		return m, nil
	}
	return m, nil
}

func (m *Model) handleComposerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editorOpen = false
		m.composer.Blur()
		return m, nil
	case tea.KeyCtrlS:
		text := strings.TrimSpace(m.composer.Value())
		if text == "" {
			m.status = "Please enter a review"
			m.statusErr = true
			return m, nil
		}
		token, err := m.state.Token()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.editorOpen = false
		m.composer.Blur()
		m.loading = true
		if m.composerMode == composerUpdate {
			return m, tea.Batch(m.spinner.Tick,
				m.updateReviewCmd(m.detailBook.ISBN, text, token))
		}
		return m, tea.Batch(m.spinner.Tick,
			m.addReviewCmd(m.detailBook.ISBN, text, token))
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeLogin()
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.passwordInput.Blur()
			return m, m.usernameInput.Focus()
		}
		m.usernameInput.Blur()
		return m, m.passwordInput.Focus()
	case tea.KeyEnter:
		return m.submitCredentials(false)
	case tea.KeyCtrlR:
		return m.submitCredentials(true)
	}
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	} else {
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

// submitCredentials validates the overlay fields and dispatches either
// a login or a registration. Blank fields never reach the network.
func (m *Model) submitCredentials(register bool) (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.usernameInput.Value())
	password := m.passwordInput.Value()
	if username == "" || password == "" {
		m.status = "Please enter both username and password"
		m.statusErr = true
		return m, nil
	}
	m.loading = true
	if register {
		return m, tea.Batch(m.spinner.Tick, m.registerCmd(username, password))
	}
	return m, tea.Batch(m.spinner.Tick, m.loginCmd(username, password))
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.confirmActive = false
		token, err := m.state.Token()
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.deleteReviewCmd(m.confirmISBN, token))
	case "n", "esc":
		m.confirmActive = false
		return m, nil
	}
	return m, nil
}

func (m *Model) openLogin() {
	m.loginActive = true
	m.loginFocus = 0
	m.usernameInput.Reset()
	m.passwordInput.Reset()
	m.usernameInput.Focus()
	m.passwordInput.Blur()
}

func (m *Model) closeLogin() {
	m.loginActive = false
	m.usernameInput.Blur()
	m.passwordInput.Blur()
	m.passwordInput.Reset()
}

func (m *Model) resetComposer() {
	m.composer.Reset()
	m.composerMode = composerCreate
	m.editorOpen = false
	m.composer.Blur()
}

// ownReview returns the session user's review on the open book, or
// nil when there is none or nobody is logged in.
func (m *Model) ownReview() *bookclub.Review {
	if !m.state.Authenticated() {
		return nil
	}
	username := m.state.Username()
	for i := range m.reviews {
		if m.reviews[i].Username == username {
			return &m.reviews[i]
		}
	}
	return nil
}

// primeComposerFromOwnReview flips the editor into update mode with
// the existing text pre-filled when the user already reviewed this
// book, and back to an empty create form when not.
func (m *Model) primeComposerFromOwnReview() {
	if own := m.ownReview(); own != nil {
		m.composerMode = composerUpdate
		m.composer.SetValue(own.Text)
		return
	}
	m.composerMode = composerCreate
	m.composer.Reset()
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) setOK(message string) {
	m.status = message
	m.statusErr = false
}
