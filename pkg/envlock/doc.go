// Package envlock serializes access to process environment variables so tests
// that run in parallel can change them safely.
//
// Lock applies a set of variables while holding a single process-wide lock and
// returns a Guard. Releasing the guard puts every touched variable back the way
// it was, last touched first, and then unlocks:
//
//	func TestUsesProxy(t *testing.T) {
//		t.Parallel()
//
//		envlock.LockT(t,
//			envlock.Setenv("HTTPS_PROXY", "http://127.0.0.1:3128"),
//			envlock.Unsetenv("NO_PROXY"),
//		)
//
//		// ...
//	}
//
// Every test that reads or writes a variable some other test changes must do so
// while holding a guard; code that calls os.Setenv directly bypasses the lock.
package envlock
