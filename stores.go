package feed

import "sync"

// SessionStore holds the authenticated session published by a successful
// login. Only the login success path writes it.
type SessionStore interface {
	SetSession(u User, token string)
	Token() string
	UserID() string
}

// PostStore owns the shared post collection. Only the publish success
// path writes it, and always wholesale: the server response is ground
// truth, never merged with prior local state.
type PostStore interface {
	ReplaceAll(posts []Post)
}

// Navigator receives navigation intents, e.g. "home" after a login.
type Navigator interface {
	GoTo(route string)
}

// FilePicker yields zero or one selected file per interaction. The picker
// owns the image extension allow-list; the stager does not re-validate.
type FilePicker interface {
	Pick() (Attachment, bool)
}

// MemorySession is the in-memory SessionStore, created at application
// start and torn down at session end.
type MemorySession struct {
	mu    sync.RWMutex
	user  User
	token string
}

func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

func (s *MemorySession) SetSession(u User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
	s.token = token
}

func (s *MemorySession) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemorySession) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.ID
}

func (s *MemorySession) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Clear drops the session record, e.g. on logout.
func (s *MemorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = User{}
	s.token = ""
}

// MemoryPosts is the in-memory PostStore.
type MemoryPosts struct {
	mu    sync.RWMutex
	items []Post
}

func NewMemoryPosts() *MemoryPosts {
	return &MemoryPosts{}
}

func (p *MemoryPosts) ReplaceAll(posts []Post) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = make([]Post, len(posts))
	copy(p.items, posts)
}

func (p *MemoryPosts) All() []Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Post, len(p.items))
	copy(out, p.items)
	return out
}
