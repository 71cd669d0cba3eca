package feed

import (
	_ "github.com/tinywasm/fmt/dictionary"
	"github.com/tinywasm/form"
)

func mustForm(parentID string, s any) *form.Form {
	f, err := form.New(parentID, s)
	if err != nil {
		panic("feed: mustForm: " + err.Error())
	}
	return f
}
