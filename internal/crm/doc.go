// ERDGen - CRM Schema Entity-Relationship Diagram Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/erdgen

/*
Package crm talks to a Salesforce-compatible metadata API.

Three calls are supported:

  - Login: SOAP login against https://{domain}.salesforce.com/services/Soap/u/{version},
    returning a session ID and the instance URL to use for data calls
  - DescribeObject: GET {instance}/services/data/v{version}/sobjects/{name}/describe
  - ListObjects: GET {instance}/services/data/v{version}/sobjects

The client is assembled from decorators that all satisfy API:

	RESTClient            raw HTTP, outbound rate limiting
	CircuitBreakerClient  sony/gobreaker around describe and list
	CachingClient         TTL cache of describe results per instance

New builds the full chain from config. Errors wrap the erd error kinds, so a
describe failure can be classified with errors.Is(err, erd.ErrSchemaLookupFailed)
without importing this package. SessionProvider binds an API and a Session
into an erd.SchemaProvider for one generation call.

There are no retries: a failed call is reported to the caller as is.
*/
package crm
