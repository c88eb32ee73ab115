// Package health provides readiness and version endpoints.
//
// Liveness is served by the proxy handlers; this package covers readiness,
// which depends on components that can degrade at runtime. Each component
// registers a CheckFunc. GET /ready runs every check concurrently, each
// bounded by the checker timeout, and answers 200 when all pass or 503 with
// the failing checks listed:
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "storage": {"status": "ok", "duration_ms": 1},
//	        "budget": {"status": "unhealthy", "message": "monthly budget exhausted"}
//	    },
//	    "timestamp": "2026-10-19T10:30:00Z"
//	}
//
// GET /version reports the build version and Go runtime.
package health
