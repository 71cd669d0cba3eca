//go:build !wasm

package feed

// RenderHTML renders the composition form for SSR.
func (m *PostModule) RenderHTML() string {
	f := m.form()
	f.SetSSR(true)
	return f.RenderHTML()
}
