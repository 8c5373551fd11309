package v1handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"ipms/pkg/domain"
	"ipms/pkg/serrors"
)

// EncodeContent writes the landing content document.
func EncodeContent(e *jx.Encoder, c *domain.Content) {
	titled := func(title, description string) func(e *jx.Encoder) {
		return func(e *jx.Encoder) {
			e.Field("title", func(e *jx.Encoder) { e.Str(title) })
			e.Field("description", func(e *jx.Encoder) { e.Str(description) })
		}
	}

	e.Obj(func(e *jx.Encoder) {
		e.Field("hero", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("title", func(e *jx.Encoder) { e.Str(c.Hero.Title) })
				e.Field("subtitle", func(e *jx.Encoder) { e.Str(c.Hero.Subtitle) })
				e.Field("cta", func(e *jx.Encoder) {
					e.Obj(func(e *jx.Encoder) {
						e.Field("text", func(e *jx.Encoder) { e.Str(c.Hero.CTA.Text) })
					})
				})
			})
		})
		e.Field("about", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				titled(c.About.Title, c.About.Description)(e)
				e.Field("items", func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, item := range c.About.Items {
							e.Obj(titled(item.Title, item.Description))
						}
					})
				})
			})
		})
		e.Field("contact", func(e *jx.Encoder) {
			e.Obj(titled(c.Contact.Title, c.Contact.Description))
		})
		e.Field("footer", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("copyright", func(e *jx.Encoder) { e.Str(c.Footer.Copyright) })
			})
		})
	})
}

// GetContent returns the landing content document.
func (h Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	if h.deps.Content == nil {
		h.WriteError(w, r, serrors.With(serrors.ErrNotFound, "content not found"))

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { EncodeContent(e, h.deps.Content) })
}
