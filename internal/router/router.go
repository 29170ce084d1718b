package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medora-health/emr-admin-api/internal/handler"
	"github.com/medora-health/emr-admin-api/internal/middleware"
)

// Handler registers unauthenticated routes.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// GuardedHandler registers routes that declare access requirements.
type GuardedHandler interface {
	RegisterRoutes(*gin.RouterGroup, handler.Guard)
}

// AuthHandler registers the token endpoints plus token-only routes.
type AuthHandler interface {
	Handler
	RegisterProtectedRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *httpMetrics

	healthH Handler
	authH   AuthHandler

	clinicH      GuardedHandler
	userH        GuardedHandler
	rbacH        GuardedHandler
	doctorH      GuardedHandler
	patientH     GuardedHandler
	appointmentH GuardedHandler
	taskH        GuardedHandler
	formH        GuardedHandler
}

type httpMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newHTTPMetrics(prefix string) *httpMetrics {
	return &httpMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH Handler,
	authH AuthHandler,
	clinicH GuardedHandler,
	userH GuardedHandler,
	rbacH GuardedHandler,
	doctorH GuardedHandler,
	patientH GuardedHandler,
	appointmentH GuardedHandler,
	taskH GuardedHandler,
	formH GuardedHandler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidations()
	engine := gin.New()

	r := &Router{
		engine:       engine,
		auth:         auth,
		metrics:      newHTTPMetrics(config.MetricsPrefix),
		healthH:      healthH,
		authH:        authH,
		clinicH:      clinicH,
		userH:        userH,
		rbacH:        rbacH,
		doctorH:      doctorH,
		patientH:     patientH,
		appointmentH: appointmentH,
		taskH:        taskH,
		formH:        formH,
	}

	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(config.RequestTimeout),
		middleware.CORS(config.CORS),
	)

	if config.RateLimitRPS > 0 {
		engine.Use(middleware.NewRateLimiter(config.RateLimitRPS, config.RateLimitBurst).Limit())
	}

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	// No token required: health probe and the token endpoints themselves.
	r.healthH.RegisterRoutes(api)
	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.authH.RegisterProtectedRoutes(protected)

	guard := handler.Guard(r.auth.RequireAccess)
	r.clinicH.RegisterRoutes(protected, guard)
	r.userH.RegisterRoutes(protected, guard)
	r.rbacH.RegisterRoutes(protected, guard)
	r.doctorH.RegisterRoutes(protected, guard)
	r.patientH.RegisterRoutes(protected, guard)
	r.appointmentH.RegisterRoutes(protected, guard)
	r.taskH.RegisterRoutes(protected, guard)
	r.formH.RegisterRoutes(protected, guard)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := []string{c.Request.Method, path, strconv.Itoa(status)}
		r.metrics.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(labels...).Inc()
	}
}
