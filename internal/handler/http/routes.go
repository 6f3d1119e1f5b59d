package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the API router. All paths carry a trailing slash; a request
// for a known path with an unsupported method gets the router's default
// 405 Method Not Allowed.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/user/create/", h.register)
		r.Post("/user/token/", h.token)
	})

	// routes requiring a valid token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/user/me/", h.profile)
		r.Patch("/user/me/", h.updateProfile)
		r.Put("/user/me/", h.updateProfile)

		r.Route("/recipe", func(r chi.Router) {
			r.Get("/recipes/", h.listRecipes)
			r.Post("/recipes/", h.createRecipe)
			r.Get("/recipes/{recipeID}/", h.getRecipe)
			r.Patch("/recipes/{recipeID}/", h.updateRecipe)
			r.Put("/recipes/{recipeID}/", h.updateRecipe)
			r.Delete("/recipes/{recipeID}/", h.deleteRecipe)

			r.Get("/tags/", h.listTags)
			r.Patch("/tags/{tagID}/", h.renameTag)
			r.Delete("/tags/{tagID}/", h.deleteTag)
		})
	})

	return router
}
