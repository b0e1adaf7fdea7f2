// Package jvgate exposes the single-threaded native racing-data provider
// through a safe, concurrent, typed interface.
//
// The provider keeps its session state bound to the OS thread that
// initialized it and is not thread-safe, so every native call is
// marshaled onto one dedicated worker thread by an internal dispatch
// executor. Around that constraint the package offers:
//
//   - a finite, restartable record iterator for bulk fetches, with
//     automatic retry/backoff while the provider is still downloading
//   - a cancellable asynchronous record stream for realtime consumption
//   - an event subscription pipeline that forwards native push
//     notifications to any number of subscribers without ever blocking
//     the native callback path; queue overflow is reported in-band as a
//     counted notification instead of silent loss
//
// Construct a Client around a session.Session implementation, open a
// data set, and iterate:
//
//	client, err := jvgate.NewClient(sess, nil, nil)
//	if err != nil { ... }
//	defer client.Close(context.Background())
//
//	info, err := client.Open(ctx, jvgate.OpenSpec{DataSpec: "RACE", From: from})
//	if err != nil { ... }
//
//	it := client.Records()
//	for it.Next(ctx) {
//	    handle(it.Record())
//	}
//	if err := it.Err(); err != nil { ... }
package jvgate
