// Package base44 provides types, interfaces, and helpers for working with a
// Base44 app backend.
//
// # Overview
//
// The base44 package defines the client-facing surface: Config, the Entity
// type, the QueryParams used by list and filter calls, the uniform Error
// shape, token storage backends, and the interfaces for the entity,
// integration, and auth modules. A concrete implementation is provided by the
// base44client package, which wires configuration, transport, and the token
// lifecycle. Most consumers should import base44client to construct a client
// and then interact with the interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/base44-io/base44-client/pkg/base44"
//	  "github.com/base44-io/base44-client/pkg/base44client"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := base44client.New(ctx, &base44.Config{AppID: "my-app"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Any entity name works; unknown names 404 at the backend.
//	  tasks, err := cli.Entity("Task").List(ctx, base44.NewQueryParams().WithLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = tasks
//	}
//
// # Queries
//
// Use QueryParams to express list options (sort, limit, skip, fields,
// filters). Filter values are encoded as one comma-joined key per field;
// this is the wire contract with the backend.
//
// # Errors
//
// Every operation surfaces failures as *Error, carrying the HTTP status,
// machine code, and response payload when a response was received, or the
// wrapped transport cause when none was. Use IsNotFound, IsUnauthorized,
// IsAuthRequired, and IsTransport to classify.
//
// # Token storage
//
// The auth token is persisted through the TokenStorage contract. Memory,
// file, and NATS KV backends are provided; hosts with their own storage
// (a browser bridge, a secrets manager) implement the three-method
// interface and pass it in via Environment.
package base44
