package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handlers : всё, что нужно для сборки маршрутов API
type Handlers struct {
	Auth   *AuthenticationHandler
	Assets *AssetHandler
	Share  *ShareHandler
	Admin  *AdminHandler
	// Files : раздача файлов дискового хранилища, nil для s3
	Files http.Handler
}

// RegisterRoutes : authenticate проверяет bearer токен и кладёт claims в контекст
func RegisterRoutes(r chi.Router, h Handlers, authenticate func(http.Handler) http.Handler) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Auth.Signup)
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.Me)
		})
	})

	r.Route("/assets", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", h.Assets.List)
		r.Post("/", h.Assets.Upload)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Assets.Get)
			r.Head("/", h.Assets.GetHead)
			r.Delete("/", h.Assets.Delete)
			r.Get("/download", h.Assets.Download)
			r.Post("/share", h.Assets.CreateShare)
			r.Delete("/share", h.Assets.RevokeShare)
			r.Patch("/pin", h.Assets.ChangePin)
			r.Post("/verify-pin", h.Assets.VerifyPin)
		})
	})

	r.Route("/share", func(r chi.Router) {
		r.Get("/", h.Share.View)
		r.Post("/access", h.Share.Access)
		r.Post("/download", h.Share.Download)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/stats", h.Admin.Stats)
		r.Get("/users", h.Admin.ListUsers)
		r.Delete("/users/{id}", h.Admin.DeleteUser)
	})

	if h.Files != nil {
		r.Handle("/files/*", h.Files)
	}
}
