package healthcheck

import (
	"github.com/gofiber/fiber/v3"
)

// RegisterRoutes mounts the liveness probes. All three are unauthenticated so
// deploy tooling can poll them before any login flow exists.
func RegisterRoutes(r fiber.Router) {
	grp := r.Group("/health")

	grp.Get("/api", ApiHealthCheck)
	grp.Get("/database", DatabaseHealthCheck)
	grp.Get("/milvus", MilvusHealthCheck)
}
