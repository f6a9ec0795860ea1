// Package server is the DevFlow web server: the question list with its
// query-synchronized search box, the sign-in and sign-up pages backed by
// the form engine, the live search websocket, health and metrics.
//
//	store := questions.NewStore(questions.Embedded())
//	srv := server.New(server.DefaultConfig(), store)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Routing is chi; every request goes through request ids, Prometheus
// metrics and an OpenTelemetry span.
package server
