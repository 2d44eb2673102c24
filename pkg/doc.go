// Package pkg provides the core libraries for situationroom dashboards.
//
// # Overview
//
// A situation room is a set of dashboards, each a grid of live-data widgets
// (maps, news and social feeds, prediction markets, flight tracking, notes,
// video, RSS). The pkg directory is organized into three areas:
//
//  1. Model: [widget], [grid], [registry], [dashboard]
//  2. Sharing and persistence: [share], [storage]
//  3. Surfaces and plumbing: [server], [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	user intent (CLI command or HTTP request)
//	         ↓
//	    [dashboard] Action → Reducer → new State
//	         ↓                     ↑
//	    [storage] save        [registry] creates widgets, [grid] places them
//	         ↓
//	    [share] minimal form → lz4 → URL-safe token
//
// # Quick Start
//
// Build a dashboard and share it:
//
//	reg := registry.NewDefault()
//	store := dashboard.NewStore(dashboard.NewReducer(reg), dashboard.Initial(time.Now()))
//
//	st, _ := store.Dispatch(dashboard.AddWidget{
//	    DashboardID: dashboard.DefaultDashboardID,
//	    Type:        widget.TypeMap,
//	})
//	d, _ := st.Active()
//
//	token, _ := share.New(reg).Encode(d)
//	fmt.Println(share.URL("https://sitroom.example/", token))
//
// # Main Packages
//
// [widget] - Widget config variants, layouts, cloning and config patches.
//
// [grid] - Rectangle geometry and first-fit placement on a fixed grid.
//
// [registry] - Widget definitions keyed by type tag: metadata, default
// config, default size, and instance creation.
//
// [dashboard] - Dashboard state, the closed set of actions, the pure
// reducer, and a concurrency-safe Store with subscriptions.
//
// [share] - Lossy share codec: default-field omission, type
// abbreviations, compression and URL helpers.
//
// [storage] - Full-fidelity persistence with file, bbolt, Redis, MongoDB
// and in-memory backends.
//
// [server] - JSON HTTP API over a Store.
//
// # Testing
//
// Run tests:
//
//	go test ./...                        # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [widget]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/widget
// [grid]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/grid
// [registry]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/registry
// [dashboard]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/dashboard
// [share]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/share
// [storage]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/storage
// [server]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/situationroom/pkg/buildinfo
package pkg
