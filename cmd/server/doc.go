// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

/*
Package main is the entry point for the ERDGen server.

ERDGen logs a user into their CRM org, lists the schema objects they can see,
and builds entity-relationship diagrams for a chosen set of objects. The
built front-end is served from the same origin.

# Application Architecture

	RootSupervisor ("erdgen")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Janitor (expired sessions, describe cache)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Session store: in-memory, or BadgerDB with encrypted CRM session IDs
 4. CRM client: rate limited REST client, circuit breaker, describe cache
 5. ERD generator
 6. Supervisor Tree: Suture v4 process supervision
 7. HTTP Server: Chi router with middleware stack

# Endpoints

	POST /login                 CRM login, sets the session cookie
	POST /logout                ends the session
	GET  /get_objects           object names visible to the user
	POST /generate_erd          ERD for the requested objects
	GET  /api/v1/session        who is logged in
	GET  /api/v1/health/live    liveness
	GET  /api/v1/health/ready   readiness (CRM circuit, session store)
	GET  /metrics               Prometheus metrics
	GET  /*                     front-end

# Example Usage

	export SESSION_STORE=badger
	export SESSION_STORE_PATH=/data/sessions
	export SESSION_ENCRYPTION_KEY=$(openssl rand -base64 32)
	export CORS_ORIGINS=https://erd.example.com
	./erdgen

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to 10s, then the session store is closed.
*/
package main
