package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"formsapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app. The guard is
// applied per-route: reads on forms are public, mutations and the audit trail
// require a bearer token.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	forms service.FormService,
	logs service.FormsLogService,
	authSvc service.AuthService,
	guard fiber.Handler,
) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health: readiness checks DB connectivity, liveness checks nothing.
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/auth/signup", SignUp(authSvc))
	app.Post("/auth/login", Login(authSvc))

	app.Post("/forms", CreateForm(forms))
	app.Get("/forms", ListForms(forms))
	app.Get("/forms/:id", GetForm(forms))
	app.Patch("/forms/:id", guard, UpdateForm(forms))
	app.Delete("/forms/:id", guard, DeleteForm(forms))

	app.Get("/forms_logs", guard, ListFormsLogs(logs))
	app.Get("/forms_logs/user/:id", guard, ListUserFormsLogs(logs))
	app.Get("/forms_logs/form/:id", guard, ListFormFormsLogs(logs))
	app.Get("/forms_logs/:id", guard, GetFormsLog(logs))
	app.Delete("/forms_logs/:id", guard, DeleteFormsLog(logs))
}
