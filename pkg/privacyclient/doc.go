// Package privacyclient provides the primary entry point for constructing a
// Privacy card-issuing API client that implements the privacy.Client interface.
//
// It validates configuration and wires the HTTP dispatcher into the resource
// clients defined in the privacy package. Most applications import
// privacyclient to build a client, then use the returned privacy.Client to
// reach Cards(), Transactions(), Simulate() and Embed().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/privacy-client/pkg/privacy"
//	  "github.com/fivetwenty-io/privacy-client/pkg/privacyclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Live environment with an API key.
//	  cli, err := privacyclient.NewWithAPIKey("my-api-key")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or the sandbox, where the simulation endpoints are available:
//	  sandbox, err := privacyclient.NewSandbox("my-sandbox-key")
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := sandbox.Simulate().Authorize(ctx, &privacy.SimulateAuthorizationRequest{
//	    Descriptor: "coffee shop",
//	    PAN:        "4111111111111111",
//	    Amount:     500,
//	  })
//	  if err != nil { log.Fatal(err) }
//	  _ = resp
//
//	  // Every card is returned bound to the client that fetched it.
//	  cards := cli.Cards().List(ctx, nil)
//	  for card, err := range cards.Seq() {
//	    if err != nil { log.Fatal(err) }
//	    _, _ = card.Pause(ctx)
//	  }
//	}
//
// # Configuration
//
// New never mutates the Config passed to it. An unknown environment, or a
// missing API key, is reported as a configuration error before any request
// is made.
package privacyclient
