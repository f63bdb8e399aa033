package models

import (
	"slices"
	"time"
)

// Document is the whole persisted game state. The JSON layout groups the three
// collections at the top level and is shared by every storage backend.
type Document struct {
	Users   []User `json:"Users"`
	Tiles   []Tile `json:"Tiles"`
	Quizzes []Quiz `json:"Quizzes"`
}

// NewDocument returns an empty document with non-nil collections.
func NewDocument() *Document {
	return &Document{
		Users:   []User{},
		Tiles:   []Tile{},
		Quizzes: []Quiz{},
	}
}

// Normalize replaces nil collections with empty ones.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Tiles == nil {
		d.Tiles = []Tile{}
	}
	if d.Quizzes == nil {
		d.Quizzes = []Quiz{}
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{
		Users:   slices.Clone(d.Users),
		Tiles:   slices.Clone(d.Tiles),
		Quizzes: make([]Quiz, len(d.Quizzes)),
	}
	for i, q := range d.Quizzes {
		q.Choices = slices.Clone(q.Choices)
		out.Quizzes[i] = q
	}
	out.Normalize()
	return out
}

// FindUser returns a pointer into the document, or nil.
func (d *Document) FindUser(uid string) *User {
	for i := range d.Users {
		if d.Users[i].UID == uid {
			return &d.Users[i]
		}
	}
	return nil
}

// FindTile returns a pointer into the document, or nil.
func (d *Document) FindTile(name string) *Tile {
	for i := range d.Tiles {
		if d.Tiles[i].Name == name {
			return &d.Tiles[i]
		}
	}
	return nil
}

// FindQuiz returns a pointer into the document, or nil.
func (d *Document) FindQuiz(name string) *Quiz {
	for i := range d.Quizzes {
		if d.Quizzes[i].Name == name {
			return &d.Quizzes[i]
		}
	}
	return nil
}

// DocumentSnapshot is the row layout used by the Postgres backend: the whole
// document is kept as a single JSONB value under a stable key.
type DocumentSnapshot struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Data      []byte    `gorm:"type:jsonb;not null" json:"data"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
