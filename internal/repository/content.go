package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/aliskhannn/stepwise-bot/internal/domain/entities"
)

var (
	ErrNotFound        = errors.New("content not found")
	ErrChapterNotFound = fmt.Errorf("chapter: %w", ErrNotFound)
	ErrSectionNotFound = fmt.Errorf("section: %w", ErrNotFound)
)

// ContentRepository provides read-only access to chapters and sections.
// The dataset is loaded from JSON once and kept in memory.
type ContentRepository struct {
	chapters []*entities.Chapter
}

// NewContentRepository loads content from the JSON file at path.
func NewContentRepository(path string) (*ContentRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return NewContentRepositoryFromJSON(data)
}

// NewContentRepositoryFromJSON parses content from raw JSON.
func NewContentRepositoryFromJSON(data []byte) (*ContentRepository, error) {
	var wrapper struct {
		Chapters []*entities.Chapter `json:"chapters"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content JSON: %w", err)
	}

	if len(wrapper.Chapters) == 0 {
		return nil, errors.New("content has no chapters")
	}

	return &ContentRepository{chapters: wrapper.Chapters}, nil
}

// Chapters returns all chapters in document order.
func (r *ContentRepository) Chapters() []*entities.Chapter {
	return r.chapters
}

// FindChapter retrieves a chapter by its identifier.
func (r *ContentRepository) FindChapter(chapterID string) (*entities.Chapter, error) {
	for _, c := range r.chapters {
		if c.ID == chapterID {
			return c, nil
		}
	}
	return nil, ErrChapterNotFound
}

// FindSection retrieves a section by chapter and section identifiers.
func (r *ContentRepository) FindSection(chapterID, sectionID string) (*entities.Section, error) {
	chapter, err := r.FindChapter(chapterID)
	if err != nil {
		return nil, err
	}

	for _, s := range chapter.Sections {
		if s.ID == sectionID {
			return s, nil
		}
	}

	return nil, ErrSectionNotFound
}

// SectionRef locates a section within its chapter.
type SectionRef struct {
	ChapterID string
	Section   *entities.Section
}

// Sections returns every section in document order.
func (r *ContentRepository) Sections() []SectionRef {
	var refs []SectionRef
	for _, c := range r.chapters {
		for _, s := range c.Sections {
			refs = append(refs, SectionRef{ChapterID: c.ID, Section: s})
		}
	}
	return refs
}
