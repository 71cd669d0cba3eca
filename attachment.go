package feed

import (
	"strings"
	"sync"
)

// AllowedExtensions is the image allow-list file pickers must enforce
// before offering a file.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Attachment is one staged file: a display name plus its bytes. A staged
// attachment is never mutated in place; replacing it means discarding the
// old value and staging a new one.
type Attachment struct {
	Name string
	Data []byte
}

// MIMEType infers the content type from the file extension.
func (a Attachment) MIMEType() string {
	name := strings.ToLower(a.Name)
	switch {
	case strings.HasSuffix(name, ".jpg"), strings.HasSuffix(name, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(name, ".png"):
		return "image/png"
	}
	return "application/octet-stream"
}

// Stager wraps the single-file picker contract: at most one staged file,
// owned exclusively by the controller that staged it.
type Stager struct {
	mu      sync.RWMutex
	current Attachment
	staged  bool
}

// Stage replaces the staged file with the first offered one. Extra files
// are dropped silently; the picker yields one per interaction anyway.
func (s *Stager) Stage(files ...Attachment) {
	if len(files) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = files[0]
	s.staged = true
}

// StageFrom asks the picker for its selection and stages it. It reports
// whether the picker yielded a file.
func (s *Stager) StageFrom(p FilePicker) bool {
	a, ok := p.Pick()
	if !ok {
		return false
	}
	s.Stage(a)
	return true
}

func (s *Stager) Current() (Attachment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.staged
}

func (s *Stager) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Attachment{}
	s.staged = false
}
