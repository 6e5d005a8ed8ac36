package handlers

import (
	"os"

	"bitbucket.org/voltride/fieldops_backend/middlewares"
	"bitbucket.org/voltride/fieldops_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RegisterRoutes wires the full HTTP surface. Handlers resolve the database
// at request time, so this can run before dependencies are connected; the
// readiness gate in main keeps traffic out until they are.
func RegisterRoutes(r *gin.Engine, logger *logrus.Logger, engine *workflow.Engine) {
	r.POST("/agent/login", AgentLogin(logger))

	agent := r.Group("/agent", middlewares.AgentAuth())
	agent.POST("/bookings/:vertical/events", SubmitBookingEvent(engine))
	agent.POST("/bookings/:vertical/media/sign", SignMediaUpload(logger))

	r.POST("/pricing/apply-coupon", ApplyCoupon(logger))

	ops := r.Group("/internal/ops", middlewares.OpsAuth(os.Getenv("OPS_API_KEY")))
	ops.GET("/invoices/export", ExportInvoices(logger))
	ops.GET("/media/url", ResolveMediaRef(logger))
	ops.POST("/effects/replay", ReplayEffect(logger))
}
