package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyrodovalexey/navlink/internal/deeplink"
	"github.com/vyrodovalexey/navlink/internal/observability"
	"github.com/vyrodovalexey/navlink/internal/pattern"
	"github.com/vyrodovalexey/navlink/internal/registry"
	"github.com/vyrodovalexey/navlink/internal/util"
)

// resolveResponse is the JSON body for a successful resolution.
type resolveResponse struct {
	Route        string                 `json:"route"`
	Pattern      string                 `json:"pattern"`
	Path         string                 `json:"path"`
	Params       map[string]interface{} `json:"params,omitempty"`
	Metadata     map[string]string      `json:"metadata,omitempty"`
	RequiresAuth bool                   `json:"requiresAuth"`
	Cached       bool                   `json:"cached"`
}

// errorResponse is the JSON body for a failed resolution.
type errorResponse struct {
	Error string `json:"error"`
}

// buildRouter assembles the HTTP surface of the resolver daemon.
func buildRouter(reg *registry.Registry, resolver *deeplink.Resolver, logger observability.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/resolve", handleResolve(resolver, logger))
	router.GET("/routes", handleRoutes(reg))
	router.GET("/healthz", handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// handleResolve resolves the url query parameter against the route table.
func handleResolve(resolver *deeplink.Resolver, logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawURL := c.Query("url")
		if rawURL == "" {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "missing url query parameter"})
			return
		}

		res, err := resolver.Resolve(c.Request.Context(), rawURL)
		if err != nil {
			status := statusForError(err)
			if status == http.StatusInternalServerError {
				logger.Error("resolution failed",
					observability.String("url", rawURL),
					observability.Error(err),
				)
			}
			c.JSON(status, errorResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, resolveResponse{
			Route:        res.Definition.Name,
			Pattern:      res.Definition.Pattern,
			Path:         res.Path,
			Params:       paramsJSON(res.Params),
			Metadata:     res.Definition.Metadata,
			RequiresAuth: res.Definition.RequiresAuth,
			Cached:       res.Cached,
		})
	}
}

// handleRoutes dumps the route table in resolution order.
func handleRoutes(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, reg.DebugDescription())
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version,
	})
}

// statusForError maps resolution errors to HTTP status codes.
func statusForError(err error) int {
	var urlErr *url.Error
	switch {
	case errors.Is(err, util.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, util.ErrNoMatch):
		return http.StatusNotFound
	case util.IsCallerError(err), errors.As(err, &urlErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// paramsJSON renders extracted parameters with their inferred types.
func paramsJSON(params pattern.Params) map[string]interface{} {
	if len(params) == 0 {
		return nil
	}

	out := make(map[string]interface{}, len(params))
	for name, v := range params {
		switch v.Kind() {
		case pattern.KindInt:
			i, _ := v.Int()
			out[name] = i
		case pattern.KindFloat:
			f, _ := v.Float()
			out[name] = f
		case pattern.KindBool:
			b, _ := v.Bool()
			out[name] = b
		case pattern.KindStringSlice:
			out[name] = v.Strings()
		default:
			out[name] = v.String()
		}
	}
	return out
}
