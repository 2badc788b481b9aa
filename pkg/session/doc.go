// Package session provides externalized HTTP session management backed by a
// shared document store, so that multiple stateless application instances
// can share session state instead of holding it in local memory.
//
// The package is built from three parts:
//
//   - Store: persistence keyed by session id with expiry-aware reads.
//     MongoStore and RedisStore share the repository between instances;
//     MemoryStore serves tests and single-instance setups.
//   - Resolver: extracts candidate session ids from a request and writes
//     the chosen id back onto the response. HeaderResolver carries the raw
//     id in a header, CookieResolver carries it base64-encoded in a cookie,
//     and HybridResolver composes both: the header wins on resolution while
//     writes fan out to both channels.
//   - Manager: orchestrates creation, attribute mutation, expiry, and
//     deletion on top of a Store and a Resolver.
//
// # Usage
//
//	db, err := mongo.NewWithDatabase(ctx, mongoCfg, "sessions")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	manager := session.New(
//		session.WithStore(session.NewMongoStore(db, 30*time.Minute)),
//	)
//	defer manager.Close()
//
//	http.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
//		sess, err := manager.Ensure(r.Context(), w, r)
//		if err != nil {
//			http.Error(w, "session unavailable", http.StatusInternalServerError)
//			return
//		}
//		_ = manager.Put(r.Context(), w, r, "theme", "dark")
//		fmt.Fprint(w, sess.ID)
//	})
//
// # Expiry
//
// A session is expired once now > lastAccessedAt + maxInactiveInterval.
// Expiry is enforced lazily: the IsExpiredAt predicate evaluated at read
// time is the single source of truth for observable absence, while physical
// deletion happens asynchronously (TTL index, Redis TTL, or the background
// sweep). A negative inactivity interval means the session never expires.
//
// # Consistency
//
// Saves are full-record upserts. Two concurrent requests carrying the same
// session id race on the attribute bag and the last writer wins; callers
// needing stronger guarantees must serialize writes per session themselves.
package session
