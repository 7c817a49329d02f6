// Package base44client provides the primary entry point for constructing a
// Base44 client that implements the base44.Client interface.
//
// It layers configuration, HTTP transport, and the authentication token
// lifecycle on top of the interfaces and types defined in the base44 package.
// Most applications should import base44client to build a client, then use the
// returned base44.Client to access the per-module surfaces: Entity(name),
// Integrations(), and Auth().
//
// Quick start
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
//
//	  // Minimal: just an app ID (no auth).
//	  cli, err := base44client.NewWithAppID(ctx, "6841c3ed9c29ef3043bc6a68")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = base44client.NewWithToken(ctx, "6841c3ed9c29ef3043bc6a68", "eyJhbGciOi...")
//
//	  // Or with full configuration:
//	  cli, err = base44client.New(ctx, &base44.Config{
//	    AppID:        "6841c3ed9c29ef3043bc6a68",
//	    RequiresAuth: true,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  // Use entity clients via the base44.Client interface
//	  tasks, err := cli.Entity("Task").List(ctx, base44.NewQueryParams().WithSort("-created_date"))
//	  if err != nil { log.Fatal(err) }
//	  _ = tasks
//	}
//
// # Required authentication
//
// When Config.RequiresAuth is true and no valid token is available, New
// initiates the hosted login flow through the configured environment and
// returns base44.ErrAuthenticationRequired instead of a client. Set
// Config.DisableAutoAuth to opt out of both the URL token capture and the
// login redirect.
//
// # Helpers
//
// The package also provides convenience constructors NewWithAppID and
// NewWithToken that wrap New with the appropriate configuration.
package base44client
