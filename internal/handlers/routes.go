package handlers

import "github.com/go-chi/chi/v5"

func (h *ItemHandler) Register(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.ListItems) // GET /items
		r.Post("/", h.PostItem) // POST /items

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetItem)        // GET /items/{id}
			r.Put("/", h.UpdateItem)     // PUT /items/{id}
			r.Delete("/", h.ArchiveItem) // DELETE /items/{id}

			r.Post("/toggle", h.ToggleItem)      // POST /items/{id}/toggle
			r.Post("/timer/start", h.StartTimer) // POST /items/{id}/timer/start
			r.Post("/timer/stop", h.StopTimer)   // POST /items/{id}/timer/stop
		})
	})

	r.Route("/tags", func(r chi.Router) {
		r.Get("/", h.ListTags)
		r.Post("/", h.PostTag)
	})

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", h.ListLists)
		r.Post("/", h.PostList)
	})

	r.Get("/health", h.HealthCheck)
}
