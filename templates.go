package listingkit

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/peterkingsmesn/listingkit/pkg/patterns"
	"github.com/peterkingsmesn/listingkit/pkg/schema"
)

//go:embed templates/*.yaml
var embeddedTemplates embed.FS

// ImportTemplateID names the built-in template carrying the Facebook post
// extraction rule table.
const ImportTemplateID = "facebook_import"

// TemplatesFS exposes the embedded template bundle so callers can reuse the
// built-in property templates or layer their own on top.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

var (
	builtinOnce      sync.Once
	builtinTemplates map[string]schema.Template
	builtinErr       error
)

func loadBuiltins() (map[string]schema.Template, error) {
	builtinOnce.Do(func() {
		entries, err := fs.ReadDir(TemplatesFS(), ".")
		if err != nil {
			builtinErr = fmt.Errorf("listingkit: read embedded templates: %w", err)
			return
		}
		loaded := make(map[string]schema.Template, len(entries))
		for _, entry := range entries {
			raw, err := fs.ReadFile(TemplatesFS(), entry.Name())
			if err != nil {
				builtinErr = fmt.Errorf("listingkit: read template %q: %w", entry.Name(), err)
				return
			}
			tpl, err := schema.Load(raw)
			if err != nil {
				builtinErr = fmt.Errorf("listingkit: template %q: %w", entry.Name(), err)
				return
			}
			loaded[tpl.ID] = tpl
		}
		builtinTemplates = loaded
	})
	return builtinTemplates, builtinErr
}

// BuiltinTemplates returns the embedded templates, sorted by id.
func BuiltinTemplates() ([]schema.Template, error) {
	loaded, err := loadBuiltins()
	if err != nil {
		return nil, err
	}
	templates := make([]schema.Template, 0, len(loaded))
	for _, tpl := range loaded {
		templates = append(templates, tpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// BuiltinTemplate returns one embedded template by id.
func BuiltinTemplate(id string) (schema.Template, error) {
	loaded, err := loadBuiltins()
	if err != nil {
		return schema.Template{}, err
	}
	tpl, ok := loaded[id]
	if !ok {
		return schema.Template{}, fmt.Errorf("listingkit: template %q not found", id)
	}
	return tpl, nil
}

// ImportPatterns compiles the built-in Facebook import rule table.
func ImportPatterns() (*patterns.Set, error) {
	tpl, err := BuiltinTemplate(ImportTemplateID)
	if err != nil {
		return nil, err
	}
	if tpl.Import == nil {
		return nil, fmt.Errorf("listingkit: template %q carries no rule table", ImportTemplateID)
	}
	return patterns.Compile(*tpl.Import)
}
