// Package tui renders the helpdesk request form in the terminal.
//
// The model owns no form state of its own: every action goes through a
// form.Controller and the view is rebuilt from its snapshot.
package tui
