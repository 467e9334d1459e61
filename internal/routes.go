package internal

import (
	"net/http"
	"statcache/internal/controllers"
	"statcache/internal/providers"
)

func InitRoutes(profileController *controllers.ProfileController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/practice", http.HandlerFunc(profileController.GetPractice))
	routers.Post("/practice", http.HandlerFunc(profileController.PostPractice))
	routers.Get("/hosting", http.HandlerFunc(profileController.GetHosting))
	routers.Post("/hosting", http.HandlerFunc(profileController.PostHosting))
	routers.Get("/blog", http.HandlerFunc(profileController.GetBlog))
	routers.Post("/blog", http.HandlerFunc(profileController.PostBlog))
	return routers
}
