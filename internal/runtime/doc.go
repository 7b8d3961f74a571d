// Package runtime wires storage, config, and the document store into a
// single-node log ingestor instance. It exposes Open/Close and basic health
// checks; higher-level services (buffer, realtime, HTTP) hang off it.
//
// Example:
//
//	cfg := config.Default()
//	rt, _ := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	res, _ := rt.Docs().Search(context.Background(), q)
package runtime
