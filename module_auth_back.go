//go:build !wasm

package feed

// RenderHTML renders the form bound to the active mode for SSR.
func (m *AuthModule) RenderHTML() string {
	f := m.form(m.Mode())
	f.SetSSR(true)
	return f.RenderHTML()
}
