package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/jhoicas/stock-uploader/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Upload *UploadHandler
	Auth   config.AuthConfig
}

// Router registra las rutas de la API. Todo /api queda detrás de Basic Auth
// con las credenciales del operador; /health se registra aparte, público.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", basicauth.New(basicauth.Config{
		Users: map[string]string{deps.Auth.User: deps.Auth.Password},
	}))

	api.Post("/preview", deps.Upload.Preview)
	api.Post("/apply", deps.Upload.Apply)
	api.Get("/logs/:name", deps.Upload.DownloadLog)
}
