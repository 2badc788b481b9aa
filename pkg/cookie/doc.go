// Package cookie provides a small HTTP cookie manager with default options
// and a base64 value codec.
//
// The Manager type is the entry point. It is initialised with a set of
// default cookie Options that every write inherits; individual calls can
// override them.
//
//   - Set(), Get(), Delete() – plain cookies
//   - SetEncoded(), GetEncoded() – base64-encoded values, the wire format
//     browsers receive from servlet-style session cookies
//
// # Usage
//
//	man := cookie.New(cookie.WithSecure(true))
//
//	http.HandleFunc("/set", func(w http.ResponseWriter, r *http.Request) {
//		_ = man.SetEncoded(w, "SESSION", sessionID)
//	})
//
//	http.HandleFunc("/get", func(w http.ResponseWriter, r *http.Request) {
//		id, err := man.GetEncoded(r, "SESSION")
//		if err != nil {
//			http.Error(w, "no session", http.StatusUnauthorized)
//			return
//		}
//		fmt.Fprint(w, id)
//	})
package cookie

