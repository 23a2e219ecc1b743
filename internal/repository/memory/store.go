// Package memory implements every repository in process memory.
// It backs the memory storage mode and the service level tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/Guyuepp/knowledge-base/domain"
)

// Store holds all tables behind one lock.
type Store struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	users       map[int64]domain.User
	departments map[int64]domain.Department
	managers    map[int64]domain.Manager
	posts       map[int64]domain.Post
	reposts     map[int64]domain.Repost
	comments    map[int64]domain.Comment
	votes       map[int64]domain.Vote
	commits     map[int64]domain.Commit
	tags        map[int64]domain.Tag
	postTags    map[int64]map[int64]struct{}
	attachments map[int64]domain.Attachment
}

// New creates an empty store.
func New() *Store {
	return &Store{
		now:         time.Now,
		users:       make(map[int64]domain.User),
		departments: make(map[int64]domain.Department),
		managers:    make(map[int64]domain.Manager),
		posts:       make(map[int64]domain.Post),
		reposts:     make(map[int64]domain.Repost),
		comments:    make(map[int64]domain.Comment),
		votes:       make(map[int64]domain.Vote),
		commits:     make(map[int64]domain.Commit),
		tags:        make(map[int64]domain.Tag),
		postTags:    make(map[int64]map[int64]struct{}),
		attachments: make(map[int64]domain.Attachment),
	}
}

// SetClock replaces the time source; tests use it for deterministic ordering.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// nextID must be called with the write lock held.
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) Users() *userRepo { return &userRepo{s} }
func (s *Store) Departments() *departmentRepo { return &departmentRepo{s} }
func (s *Store) Managers() *managerRepo { return &managerRepo{s} }
func (s *Store) Posts() *postRepo { return &postRepo{s} }
func (s *Store) Comments() *commentRepo { return &commentRepo{s} }
func (s *Store) Votes() *voteRepo { return &voteRepo{s} }
func (s *Store) Commits() *commitRepo { return &commitRepo{s} }
func (s *Store) Tags() *tagRepo { return &tagRepo{s} }
func (s *Store) Attachments() *attachmentRepo { return &attachmentRepo{s} }

// sortByCreation orders by creation time, then id.
func sortByCreation[T any](items []T, key func(T) (time.Time, int64), desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if !ti.Equal(tj) {
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		}
		if desc {
			return ii > ij
		}
		return ii < ij
	})
}

func sortInt64(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
