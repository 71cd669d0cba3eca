package feed

import (
	"context"
	"sync"

	"github.com/tinywasm/form"
)

// PostModule owns the post-composition widget: the draft body, the staged
// image, and the expanded/collapsed state of the image affordance.
type PostModule struct {
	api     *apiClient
	session SessionStore
	posts   PostStore

	mu       sync.Mutex
	draft    PostData
	image    Stager
	expanded bool
	inFlight bool
	postForm *form.Form
}

func NewPostModule(cfg Config) *PostModule {
	cfg = cfg.withDefaults()
	return &PostModule{
		api:     newAPIClient(cfg.BaseURL, cfg.HTTPClient),
		session: cfg.Session,
		posts:   cfg.Posts,
	}
}

func (m *PostModule) HandlerName() string { return "post" }
func (m *PostModule) ModuleTitle() string { return "New Post" }

// ValidateData satisfies the site framework's module contract.
func (m *PostModule) ValidateData(action byte, data ...any) error {
	return m.form().ValidateData(action, data...)
}

func (m *PostModule) form() *form.Form {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postForm == nil {
		m.postForm = mustForm("post", &PostData{})
	}
	return m.postForm
}

func (m *PostModule) Body() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.Description
}

func (m *PostModule) SetBody(body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.Description = body
}

// Image is the optional staged attachment for the next post.
func (m *PostModule) Image() *Stager {
	return &m.image
}

// ToggleImage flips the image affordance open or closed.
func (m *PostModule) ToggleImage() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expanded = !m.expanded
	return m.expanded
}

func (m *PostModule) Expanded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expanded
}

// Publish sends the draft as one bearer-authenticated request and
// replaces the shared collection wholesale with the response. An empty
// body makes Publish a no-op: posting is unavailable, not an error. On
// any failure the body and staged image are retained and the collection
// is untouched.
func (m *PostModule) Publish(ctx context.Context) ([]Post, error) {
	m.mu.Lock()
	if m.draft.Description == "" {
		m.mu.Unlock()
		return nil, nil
	}
	if m.inFlight {
		m.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	m.inFlight = true
	body := m.draft.Description
	image, staged := m.image.Current()
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	fields := [][2]string{
		{"userId", m.session.UserID()},
		{"description", body},
	}
	var updated []Post
	if err := m.api.postMultipart(ctx, "/posts", fields, image, staged, m.session.Token(), &updated); err != nil {
		return nil, err
	}

	// The response is the full current collection: replace, never merge.
	m.posts.ReplaceAll(updated)

	m.mu.Lock()
	m.draft = PostData{}
	m.image.Clear()
	m.expanded = false
	m.mu.Unlock()
	return updated, nil
}
