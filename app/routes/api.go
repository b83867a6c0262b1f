// Package routes wires controllers, middleware, and streaming transports
// onto the router.
package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shashiranjanraj/shoplist/app/controllers"
	appgraphql "github.com/shashiranjanraj/shoplist/app/graphql"
	"github.com/shashiranjanraj/shoplist/app/services"
	"github.com/shashiranjanraj/shoplist/pkg/event"
	"github.com/shashiranjanraj/shoplist/pkg/logger"
	"github.com/shashiranjanraj/shoplist/pkg/metrics"
	"github.com/shashiranjanraj/shoplist/pkg/middleware"
	"github.com/shashiranjanraj/shoplist/pkg/reqid"
	"github.com/shashiranjanraj/shoplist/pkg/response"
	"github.com/shashiranjanraj/shoplist/pkg/router"
	"github.com/shashiranjanraj/shoplist/pkg/ws"
)

// Deps carries everything route registration needs.
type Deps struct {
	Products *services.ProductService
	Auth     *services.AuthService
}

// Register builds the full route table and returns the router together
// with the running WebSocket hub.
func Register(deps Deps) (*router.Router, *ws.Hub) {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	products := controllers.NewProductController(deps.Products)
	auth := controllers.NewAuthController(deps.Auth)

	hub := newListHub(deps.Products)

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", "metrics", metrics.Handler())

	r.Post("/api/login", "auth.login", auth.Login)

	api := r.Group("/api")
	api.Get("/products", "products.list", products.List)
	api.Get("/products/stream", "products.stream", products.Stream)
	api.Get("/products/{uid}/image", "products.image", products.Image)

	// Writes require an authenticated admin.
	protected := api.Group("", middleware.Auth)
	protected.Post("/products", "products.create", products.Create)
	protected.Put("/products/{uid}", "products.update", products.Update)
	protected.Delete("/products/{uid}", "products.delete", products.Delete)
	protected.Delete("/products", "products.clear", products.DeleteAll)

	registerGraphQL(r, deps.Products)

	r.Get("/ws/products", "products.ws", func(w http.ResponseWriter, req *http.Request) {
		metrics.StreamClients.WithLabelValues("ws").Inc()
		defer metrics.StreamClients.WithLabelValues("ws").Dec()
		ws.Upgrade(w, req, hub)
	})

	return r, hub
}

func registerGraphQL(r *router.Router, service *services.ProductService) {
	schema, err := appgraphql.NewSchema(service)
	if err != nil {
		logger.Error("graphql: schema build failed", "error", err)
		return
	}
	r.Post("/api/graphql", "graphql", appgraphql.Handler(schema))
}

// newListHub starts a hub that pushes a fresh list snapshot to every
// WebSocket client after each committed store mutation. New clients get
// the current snapshot on connect.
func newListHub(service *services.ProductService) *ws.Hub {
	hub := ws.NewHub()
	hub.OnConnect = func() []byte { return snapshotJSON(service) }
	go hub.Run()

	event.ListenAll(func(_ interface{}) {
		if payload := snapshotJSON(service); payload != nil {
			hub.Broadcast <- payload
		}
	}, event.ProductCreated, event.ProductUpdated, event.ProductDeleted, event.ProductSeeded)

	return hub
}

func snapshotJSON(service *services.ProductService) []byte {
	products, err := service.List()
	if err != nil {
		logger.Error("ws: snapshot load failed", "error", err)
		return nil
	}
	views := make([]map[string]interface{}, len(products))
	for i, p := range products {
		views[i] = map[string]interface{}{
			"uid":         p.UID,
			"catalog_id":  p.CatalogID,
			"name":        p.Name,
			"quantity":    p.Quantity,
			"image_bytes": len(p.ImageData),
		}
	}
	payload, err := json.Marshal(map[string]interface{}{"event": "products", "data": views})
	if err != nil {
		return nil
	}
	return payload
}
