// Package httpserver provides the REST gateway for the log ingestor: ingest
// endpoints backed by the write buffer, query endpoints over the document
// store, and realtime delivery over SSE and WebSocket.
//
// Example:
//
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: config.Default()})
//	s := httpserver.New(rt, buf, disp, logger)
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	_ = s.ListenAndServe(ctx, ":3000")
package httpserver
