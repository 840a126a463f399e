// Package entitle is an embeddable subscription and license lifecycle
// manager.
//
// It keeps a local, authoritative record of each user's subscription
// (plan, status, cancellation flags) and delegates license and product
// operations to an external entitlement provider. The split is
// deliberate: access decisions never wait on the provider, while
// license keys are never stored locally.
//
// # Quick start
//
//	st := memory.New()
//	eng := entitle.New(st,
//		entitle.WithProvider(rest.New(baseURL, apiKey)),
//		entitle.WithAuditRecorder(audithook.RecorderFunc(st.AppendAuditEvent)),
//	)
//	if err := eng.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer eng.Stop()
//
//	sub, err := eng.EffectiveSubscription(ctx, entitle.Identity{UserID: "u_123"})
//
// # Cancellation policy
//
// Cancel with immediately=false marks the subscription to lapse at the
// end of the paid period; the user keeps access until then, and
// repeating the call is a reported no-op. Cancel with immediately=true
// revokes access at once and also escalates a pending deferred
// cancellation. Either way the provider-side record is canceled
// best-effort after the local write commits.
//
// # Extension points
//
// Plugins hook lifecycle events (see the plugin package); the bundled
// audithook plugin turns them into an append-only audit trail. Storage
// backends live under store/ (memory, sqlite, postgres, mongo). The
// extension package adapts the engine to Forge applications, and
// httpapi exposes the operations over HTTP.
package entitle
