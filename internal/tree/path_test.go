package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"opsconsole/internal/config"
	"opsconsole/internal/domain"
	"opsconsole/internal/domain/models/docstore"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercases", in: "Q1", want: "q1"},
		{name: "collapses whitespace", in: "  Client   Files ", want: "client-files"},
		{name: "tabs and newlines", in: "a\tb\nc", want: "a-b-c"},
		{name: "slash replaced", in: "a/b", want: "a-b"},
		{name: "already slug", in: "archive", want: "archive"},
		{name: "blank", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.in); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasPathPrefix(t *testing.T) {
	tests := []struct {
		path, prefix string
		want         bool
	}{
		{"projects", "projects", true},
		{"projects/2024", "projects", true},
		{"projects-old", "projects", false},
		{"projectsx/a", "projects", false},
		{"proj", "projects", false},
	}

	for _, tt := range tests {
		if got := HasPathPrefix(tt.path, tt.prefix); got != tt.want {
			t.Errorf("HasPathPrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
		}
	}
}

func TestNewChildInheritsFromParent(t *testing.T) {
	parent := docstore.Folder{
		ID:       "p",
		Name:     "Clients",
		Path:     "clients",
		Depth:    0,
		Category: docstore.CategoryClients,
		Color:    "#336699",
		Icon:     "users",
	}

	child := NewChild(parent, "Acme Corp")

	assert.Equal(t, "clients/acme-corp", child.Path)
	assert.Equal(t, 1, child.Depth)
	assert.Equal(t, docstore.CategoryClients, child.Category)
	assert.Equal(t, "#336699", child.Color)
	assert.Empty(t, child.Icon)
	if assert.NotNil(t, child.ParentID) {
		assert.Equal(t, "p", *child.ParentID)
	}

	root := NewRoot("Shared Media", docstore.CategoryMedia)
	assert.Equal(t, "shared-media", root.Path)
	assert.Equal(t, 0, root.Depth)
	assert.Nil(t, root.ParentID)
}

func TestCheckChildDepth(t *testing.T) {
	tests := []struct {
		name    string
		depth   int
		wantErr bool
	}{
		{name: "root parent", depth: 0},
		{name: "parent one above limit", depth: config.MaxFolderDepth - 1},
		{name: "parent at limit", depth: config.MaxFolderDepth, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckChildDepth(docstore.Folder{ID: "p", Depth: tt.depth})
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrValidation))
				return
			}
			assert.NoError(t, err)
		})
	}

	assert.Less(t, config.MaxFolderDepth, MaxAncestorHops)
}
