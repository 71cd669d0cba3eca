// Package feed is the client-side interaction layer of a social-feed
// application: a dual-mode authentication form (login/register with an
// optional profile image) and a post-composition widget that submit to a
// remote service and fold the responses into in-memory application state.
package feed

import (
	"net/http"

	"github.com/tinywasm/fmt"
)

var (
	ErrSubmitInFlight  = fmt.Err("submission", "in", "progress") // EN: Submission In Progress   / ES: Envío En Progreso
	ErrInvalidResponse = fmt.Err("response", "invalid")          // EN: Response Invalid         / ES: Respuesta Inválida
)

// User is the account entity returned by the auth endpoints.
type User struct {
	ID          string `json:"_id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	Location    string `json:"location,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	PicturePath string `json:"picturePath,omitempty"`
}

// Post is one entry of the shared feed collection. The create-post
// endpoint returns the full updated collection, not just the new entry.
type Post struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"userId"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Description     string          `json:"description"`
	Location        string          `json:"location,omitempty"`
	PicturePath     string          `json:"picturePath,omitempty"`
	UserPicturePath string          `json:"userPicturePath,omitempty"`
	Likes           map[string]bool `json:"likes,omitempty"`
	Comments        []string        `json:"comments,omitempty"`
}

// DefaultBaseURL is where the remote service listens during development.
const DefaultBaseURL = "http://localhost:3001"

type Config struct {
	BaseURL    string       // default: DefaultBaseURL
	HTTPClient *http.Client // default: http.DefaultClient
	Session    SessionStore // default: NewMemorySession()
	Posts      PostStore    // default: NewMemoryPosts()
	Nav        Navigator    // default: no-op
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Session == nil {
		c.Session = NewMemorySession()
	}
	if c.Posts == nil {
		c.Posts = NewMemoryPosts()
	}
	if c.Nav == nil {
		c.Nav = noopNav{}
	}
	return c
}

type noopNav struct{}

func (noopNav) GoTo(string) {}
