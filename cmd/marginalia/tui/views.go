// Copyright (C) 2025 Marginalia Reads (dev@marginalia.reads)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marginalia-reads/marginalia/pkg/bookclub"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.confirmActive:
		b.WriteString(m.renderConfirm())
	case m.loginActive:
		b.WriteString(m.renderLogin())
	default:
		b.WriteString(m.renderSection())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	tabs := []struct {
		section Section
		label   string
	}{
		{SectionCatalog, "1 Catalog"},
		{SectionSearch, "2 Search"},
		{SectionMyReviews, "3 My Reviews"},
	}

	var parts []string
	parts = append(parts, titleStyle.Render("❧ Marginalia"))
	for _, t := range tabs {
		style := tabStyle
		if m.section == t.section || (m.section == SectionDetail && t.section == SectionCatalog) {
			style = activeTabStyle
		}
		parts = append(parts, style.Render(t.label))
	}

	identity := identityStyle.Render("not logged in")
	if m.state.Authenticated() {
		identity = identityStyle.Render("@" + m.state.Username())
	}
	parts = append(parts, identity)

	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderSection() string {
	switch m.section {
	case SectionCatalog:
		return m.renderBookList(m.books, "No books found")
	case SectionSearch:
		return m.renderSearch()
	case SectionMyReviews:
		return m.renderMyReviews()
	case SectionDetail:
		return m.renderDetail()
	}
	return ""
}

// renderBookList is the one card renderer shared by the catalog and
// the search results, so the two can never drift apart visually.
func (m *Model) renderBookList(books []bookclub.Book, empty string) string {
	if m.loading && len(books) == 0 {
		return m.spinner.View() + " fetching books..."
	}
	if len(books) == 0 {
		return emptyStateStyle.Render(empty)
	}

	var cards []string
	for i, book := range books {
		cards = append(cards, m.renderBookCard(book, i == m.cursor))
	}
	return strings.Join(cards, "\n")
}

func (m *Model) renderBookCard(book bookclub.Book, selected bool) string {
	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	body := bookTitleStyle.Render(book.Title) + "\n" +
		authorStyle.Render("by "+book.Author) + "\n" +
		isbnStyle.Render("ISBN "+book.ISBN)
	return style.Render(body)
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Search by %s (tab to change)\n", m.searchKind))
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")
	if m.searchRan || m.loading {
		b.WriteString(m.renderBookList(m.searchResults, "No books found"))
	}
	return b.String()
}

func (m *Model) renderMyReviews() string {
	if !m.state.Authenticated() {
		return emptyStateStyle.Render("Please login to view your reviews")
	}
	if m.loading && len(m.mine) == 0 {
		return m.spinner.View() + " scanning the catalog for your reviews..."
	}
	if len(m.mine) == 0 {
		return emptyStateStyle.Render("You have not submitted any reviews yet.")
	}

	var cards []string
	for i, item := range m.mine {
		style := cardStyle
		if i == m.cursor {
			style = selectedCardStyle
		}
		body := bookTitleStyle.Render(item.Book.Title) + "\n" +
			authorStyle.Render("by "+item.Book.Author) + "\n\n" +
			item.Review.Text
		cards = append(cards, style.Render(body))
	}
	return strings.Join(cards, "\n")
}

func (m *Model) renderDetail() string {
	var b strings.Builder

	header := bookTitleStyle.Render(m.detailBook.Title) + "\n" +
		authorStyle.Render("by "+m.detailBook.Author) + "\n" +
		isbnStyle.Render("ISBN "+m.detailBook.ISBN)
	b.WriteString(cardStyle.Render(header))
	b.WriteString("\n\n")

	if m.loading && len(m.reviews) == 0 {
		b.WriteString(m.spinner.View() + " fetching reviews...")
	} else if len(m.reviews) == 0 {
		b.WriteString(emptyStateStyle.Render("No reviews yet"))
	} else {
		username := ""
		if m.state.Authenticated() {
			username = m.state.Username()
		}
		for i, review := range m.reviews {
			marker := "  "
			if i == m.reviewCursor {
				marker = helpKeyStyle.Render("> ")
			}
			line := marker + reviewAuthorStyle.Render(review.Username)
			if username != "" && review.Username == username {
				line += " " + ownReviewBadge.String()
			}
			b.WriteString(line + "\n    " + review.Text + "\n")
		}
	}

	if m.editorOpen {
		label := "New review"
		if m.composerMode == composerUpdate {
			label = "Update your review"
		}
		b.WriteString("\n" + helpDescStyle.Render(label) + "\n")
		b.WriteString(m.composer.View())
	}

	return b.String()
}

func (m *Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sign in") + "\n\n")
	b.WriteString(m.usernameInput.View() + "\n")
	b.WriteString(m.passwordInput.View() + "\n")
	return overlayBoxStyle.Render(b.String())
}

func (m *Model) renderConfirm() string {
	body := "Are you sure you want to delete your review?\n\n" +
		helpKeyStyle.Render("y") + helpDescStyle.Render(" delete  ") +
		helpKeyStyle.Render("n") + helpDescStyle.Render(" keep it")
	return confirmBoxStyle.Render(body)
}

func (m *Model) renderFooter() string {
	var b strings.Builder

	if m.status != "" {
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(statusOKStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	if m.loading {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *Model) helpLine() string {
	pair := func(key, desc string) string {
		return helpKeyStyle.Render(key) + helpDescStyle.Render(" "+desc)
	}

	switch {
	case m.confirmActive:
		return pair("y", "confirm") + "  " + pair("n", "cancel")
	case m.loginActive:
		return pair("enter", "login") + "  " + pair("ctrl+r", "register") + "  " +
			pair("tab", "switch field") + "  " + pair("esc", "cancel")
	case m.editorOpen:
		return pair("ctrl+s", "submit") + "  " + pair("esc", "close editor")
	case m.section == SectionDetail:
		parts := []string{pair("e", "write/edit review"), pair("d", "delete review"),
			pair("esc", "back"), pair("q", "quit")}
		return strings.Join(parts, "  ")
	case m.section == SectionSearch && m.searchInput.Focused():
		return pair("enter", "search") + "  " + pair("tab", "search kind") + "  " +
			pair("esc", "done typing")
	default:
		parts := []string{pair("↑/↓", "move"), pair("enter", "open")}
		if m.state.Authenticated() {
			parts = append(parts, pair("o", "logout"))
		} else {
			parts = append(parts, pair("l", "login"))
		}
		parts = append(parts, pair("q", "quit"))
		return strings.Join(parts, "  ")
	}
}
